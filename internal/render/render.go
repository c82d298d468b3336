package render

import "strings"

// Markdown renders markdown content for terminal display.
// Renderers are reused per option set; concurrent calls are safe.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := borrow(opts)
	if err != nil {
		return "", err
	}
	defer giveBack(opts, renderer)

	return renderer.Render(content)
}

// Reply renders an assistant reply, falling back to the raw text when the
// markdown cannot be rendered. Surrounding blank lines added by glamour are
// trimmed so replies stack tightly in the chat panel.
func Reply(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
