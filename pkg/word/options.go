package word

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ImageLevel selects how much picture data is collected.
type ImageLevel int

const (
	ImagesNone ImageLevel = iota
	ImagesPlaceholder
	ImagesExtract
)

func (l ImageLevel) String() string {
	switch l {
	case ImagesNone:
		return "none"
	case ImagesPlaceholder:
		return "placeholder"
	case ImagesExtract:
		return "extract"
	default:
		return fmt.Sprintf("ImageLevel(%d)", int(l))
	}
}

// ParseImageLevel accepts the names returned by String.
func ParseImageLevel(s string) (ImageLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return ImagesNone, nil
	case "placeholder", "pic":
		return ImagesPlaceholder, nil
	case "extract":
		return ImagesExtract, nil
	default:
		return ImagesNone, fmt.Errorf("unknown image level %q", s)
	}
}

type options struct {
	logger       *slog.Logger
	outlineFonts bool
	imageLevel   ImageLevel
}

func defaultOptions() options {
	return options{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		imageLevel: ImagesNone,
	}
}

// Option configures Open and OpenSource.
type Option func(*options)

// WithLogger sets the logger used for warnings about damaged tables.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOutlineFonts makes the document load character formatting (fonts,
// hidden text, pictures) in addition to paragraph formatting.
func WithOutlineFonts(on bool) Option {
	return func(o *options) { o.outlineFonts = on }
}

// WithImageLevel selects whether picture data is mapped.
func WithImageLevel(l ImageLevel) Option {
	return func(o *options) { o.imageLevel = l }
}
