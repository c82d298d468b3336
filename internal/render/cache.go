package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdle bounds how many idle renderers are kept per option set.
const maxIdle = 4

// renderers hands out glamour renderers keyed by their options. A
// TermRenderer is not safe for concurrent use, so callers borrow one and
// give it back when done.
var renderers = struct {
	sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}{idle: make(map[Options][]*glamour.TermRenderer)}

func borrow(opts Options) (*glamour.TermRenderer, error) {
	renderers.Lock()
	free := renderers.idle[opts]
	if n := len(free); n > 0 {
		r := free[n-1]
		renderers.idle[opts] = free[:n-1]
		renderers.Unlock()
		return r, nil
	}
	if _, ok := renderers.idle[opts]; !ok {
		renderers.idle[opts] = nil
	}
	renderers.Unlock()

	return newRenderer(opts)
}

func giveBack(opts Options, r *glamour.TermRenderer) {
	renderers.Lock()
	defer renderers.Unlock()
	if free, ok := renderers.idle[opts]; ok && len(free) < maxIdle {
		renderers.idle[opts] = append(free, r)
	}
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if name, ok := StandardStyle(opts.Style); ok {
		ropts = append(ropts, glamour.WithStandardStyle(name))
	} else {
		ropts = append(ropts, glamour.WithStylePath(opts.Style))
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every idle renderer. The chat panel calls it when its
// width changes, since renderers for the old width are never asked for again.
func ClearCache() {
	renderers.Lock()
	renderers.idle = make(map[Options][]*glamour.TermRenderer)
	renderers.Unlock()
}

// CacheSize returns the number of option sets seen since the last clear.
func CacheSize() int {
	renderers.Lock()
	defer renderers.Unlock()
	return len(renderers.idle)
}
