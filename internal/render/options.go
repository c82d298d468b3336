// Package render turns assistant replies into styled terminal text.
package render

import (
	"os"

	"github.com/diogo/llmtui/internal/config"
)

// Options configures the markdown renderer.
type Options struct {
	// Width is the word wrap column (default: 80)
	Width int

	// Style is a glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	md := config.DefaultMarkdownConfig()
	return FromConfig(md).WithWidth(80)
}

// FromConfig builds Options from the markdown section of the user config.
// GLAMOUR_STYLE, when set, wins over the configured style.
func FromConfig(md config.MarkdownConfig) Options {
	opts := Options{
		Width:            80,
		Style:            ThemeDark,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if md.Style != "" {
		opts.Style = md.Style
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
