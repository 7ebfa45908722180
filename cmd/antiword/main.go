// antiword writes the text of Word 6, 7, 8 and later documents to standard
// output.
//
// Usage:
//
//	antiword [-t|-p papersize] [-m mapping] [-w #] [-i #] [-X #] [-Ls] file...
//
// A file name of "-" reads the document from standard input. PostScript
// output (-p) is not produced; the paper size is recorded and the text is
// written as with -t.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/user/wordgo/internal/config"
	"github.com/user/wordgo/pkg/cfb"
	"github.com/user/wordgo/pkg/render"
	"github.com/user/wordgo/pkg/word"
)

const banner = "::::::::::::::"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type settings struct {
	cfg      *config.Config
	encoding render.Encoding
	images   word.ImageLevel
	log      *slog.Logger
}

// run converts the files named in args and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flagSet := pflag.NewFlagSet("antiword", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() { usage(stderr, flagSet) }

	text := flagSet.BoolP("text", "t", false, "write text (the default)")
	paper := flagSet.StringP("paper", "p", "", "paper size for PostScript, rendered as text")
	mapping := flagSet.StringP("mapping", "m", "", "character mapping file, e.g. 8859-1.txt")
	width := flagSet.IntP("width", "w", -1, "line width in characters, 0 for one line per paragraph")
	imageLevel := flagSet.StringP("image-level", "i", "", "image level: none, placeholder, extract, or 1 for none")
	encoding := flagSet.StringP("encoding", "X", "", "output encoding: UTF-8, ISO-8859-1 or ISO-8859-2")
	landscape := flagSet.BoolP("landscape", "L", false, "landscape mode (PostScript)")
	showHidden := flagSet.BoolP("hidden", "s", false, "show text hidden by Word")
	configPath := flagSet.String("config", "", "configuration file (default $"+config.EnvVar+")")
	imageDir := flagSet.String("images", "", "directory to extract pictures to")
	logLevel := flagSet.String("log-level", "", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	files := flagSet.Args()
	if len(files) == 0 {
		usage(stderr, flagSet)
		return 1
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "antiword: %v\n", err)
		return 1
	}

	if *width >= 0 {
		cfg.Output.Width = *width
	}
	if *mapping != "" {
		cfg.Output.Encoding = *mapping
	}
	if *encoding != "" {
		cfg.Output.Encoding = *encoding
	}
	if *showHidden {
		cfg.Output.ShowHidden = true
	}
	if *paper != "" && !*text {
		cfg.Paper.Size = *paper
	}
	if *landscape {
		cfg.Paper.Landscape = true
	}
	if *imageLevel != "" {
		cfg.Images.Level = imageLevelName(*imageLevel)
	}
	if *imageDir != "" {
		cfg.Images.Dir = *imageDir
		cfg.Images.Level = word.ImagesExtract.String()
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "antiword: invalid configuration: %v\n", err)
		return 1
	}

	s := settings{cfg: cfg}
	s.encoding, _ = render.ParseEncoding(cfg.Output.Encoding)
	s.images, _ = word.ParseImageLevel(cfg.Images.Level)
	level, _ := config.ParseLogLevel(cfg.Log.Level)
	s.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if *paper != "" && !*text {
		s.log.Info("PostScript output is not supported, writing text",
			"paper", cfg.Paper.Size, "landscape", cfg.Paper.Landscape)
	}

	good := 0
	for _, name := range files {
		if len(files) > 1 {
			fmt.Fprintf(stdout, "%s\n%s\n%s\n", banner, filepath.Base(name), banner)
		}
		if err := convert(name, stdin, stdout, stderr, s); err != nil {
			s.log.Debug("conversion failed", "file", name, "error", err)
			continue
		}
		good++
	}
	if good == 0 {
		return 1
	}
	return 0
}

// imageLevelName maps the numeric levels of -i to level names. Level 1
// means no images; the PostScript levels show placeholders.
func imageLevelName(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	if n == 1 {
		return word.ImagesNone.String()
	}
	return word.ImagesPlaceholder.String()
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

// convert writes the text of one file. Diagnostics for files that are not
// Word documents go to stderr.
func convert(name string, stdin io.Reader, stdout, stderr io.Writer, s settings) error {
	src, err := openSource(name, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "I can't open '%s' for reading\n", name)
		return err
	}
	defer src.Close()

	if !word.IsSupportedWordFile(src) {
		switch {
		case word.IsRTF(src):
			fmt.Fprintf(stderr, "%s is not a Word Document. It is probably a Rich Text Format file\n", name)
		case word.IsWord245(src):
			fmt.Fprintf(stderr, "%s is not in a supported Word format. It is probably from 'Word2, 4 or 5'\n", name)
		default:
			fmt.Fprintf(stderr, "%s is not a Word Document.\n", name)
		}
		return word.ErrNotWordDocument
	}

	doc, err := word.OpenSource(src,
		word.WithLogger(s.log.With("file", name)),
		word.WithOutlineFonts(s.cfg.Output.OutlineFonts),
		word.WithImageLevel(s.images),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return err
	}
	defer doc.Close()

	imageDir := ""
	if s.images == word.ImagesExtract {
		imageDir = s.cfg.Images.Dir
	}
	return render.Render(stdout, doc, render.Options{
		Width:        s.cfg.Output.Width,
		ShowHidden:   s.cfg.Output.ShowHidden,
		OutlineFonts: s.cfg.Output.OutlineFonts,
		Encoding:     s.encoding,
		ImageDir:     imageDir,
		Logger:       s.log.With("file", name),
	})
}

func usage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Name: antiword
Purpose: Display MS-Word files
Usage: antiword [-t|-p papersize][-m mapping][-w #][-i #][-X #][-Ls] wordfiles

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
