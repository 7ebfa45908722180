// docinspect prints the structure of Word documents: the compound file
// directory with stream digests, the File Information Block, the text
// lists, the pieces and the formatting events.
//
// Usage:
//
//	docinspect [--format yaml|cbor] [--compress none|lz4|zstd] [--verify] [-o file] file...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/user/wordgo/internal/config"
	"github.com/user/wordgo/pkg/cfb"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "docinspect: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("docinspect", pflag.ContinueOnError)
	format := flagSet.String("format", "", "report format: yaml or cbor")
	compression := flagSet.String("compress", "", "compress the report: none, lz4 or zstd")
	verify := flagSet.Bool("verify", false, "cross-check the directory with an independent reader")
	output := flagSet.StringP("output", "o", "", "write the report to a file instead of stdout")
	maxEvents := flagSet.Int("max-events", 10000, "maximum number of formatting events to list")
	configPath := flagSet.String("config", "", "configuration file (default $"+config.EnvVar+")")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	files := flagSet.Args()
	if len(files) == 0 {
		return errors.New("no input files")
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if *format != "" {
		cfg.Dump.Format = *format
	}
	if *compression != "" {
		cfg.Dump.Compression = *compression
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var reports []*Report
	for _, name := range files {
		src, err := openSource(name, stdin)
		if err != nil {
			return err
		}
		reports = append(reports, inspect(name, src, *verify, *maxEvents))
		src.Close()
	}

	w := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *output, err)
		}
		defer f.Close()
		w = f
	}
	return writeReports(w, reports, cfg.Dump.Format, cfg.Dump.Compression)
}

type source interface {
	cfb.ByteSource
	io.Closer
}

func openSource(name string, stdin io.Reader) (source, error) {
	if name == "-" {
		return cfb.ReadSource(stdin)
	}
	return cfb.OpenFile(name)
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("docinspect: CBOR encoder initialization failed: " + err.Error())
	}
}

// writeReports encodes the reports and compresses the result.
func writeReports(w io.Writer, reports []*Report, format, compression string) error {
	var zw io.WriteCloser
	switch compression {
	case "lz4":
		zw = lz4.NewWriter(w)
	case "zstd":
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		zw = enc
	}
	out := w
	if zw != nil {
		out = zw
	}

	var err error
	switch format {
	case "cbor":
		err = cborEncMode.NewEncoder(out).Encode(reports)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		err = enc.Encode(reports)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode the report: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to compress the report: %w", err)
		}
	}
	return nil
}
