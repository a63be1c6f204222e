// Command vorbisdump opens an Ogg/Vorbis file, reports its header
// metadata and comment tags, and optionally streams decoded PCM to a raw
// little-endian float32 sink for smoke-testing the decoder end to end.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sr8e/go-ogg-vorbis/vorbis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vorbisdump <file.ogg>",
		Short: "Inspect and decode an Ogg/Vorbis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.WarnLevel)
			}
			return run(args[0], outPath, logger)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write decoded PCM (raw, interleaved, little-endian float32) to this path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log decode diagnostics")
	return cmd
}

func run(path, outPath string, logger *logrus.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := vorbis.Open(f, vorbis.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	upper, nominal, lower := dec.Bitrates()
	fmt.Printf("channels:      %d\n", dec.Channels())
	fmt.Printf("sample rate:   %d Hz\n", dec.SampleRate())
	fmt.Printf("bitrate:       upper=%d nominal=%d lower=%d\n", upper, nominal, lower)
	fmt.Printf("total samples: %d\n", dec.TotalSamples())

	tags := dec.Tags()
	fmt.Printf("vendor:        %s\n", tags.Vendor)
	keys := make([]string, 0, len(tags.Fields))
	for k := range tags.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range tags.Fields[k] {
			fmt.Printf("  %s=%s\n", k, v)
		}
	}

	if outPath == "" {
		return nil
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return decodeTo(dec, out)
}

func decodeTo(dec *vorbis.Decoder, w io.Writer) error {
	buf := make([]float32, 4096*dec.Channels())
	raw := make([]byte, 4)
	for {
		n, err := dec.Read(buf)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(raw, math.Float32bits(buf[i]))
			if _, werr := w.Write(raw); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			if dec.HasClipped() {
				fmt.Fprintln(os.Stderr, "warning: output contained clipped samples")
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}
