package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the terminal width used when none is given.
const DefaultWordWrap = 120

// Renderer turns markdown into terminal output. A raw Renderer returns the
// markdown unchanged.
type Renderer struct {
	Style string
	Raw   bool
	Width int
}

// NewRenderer returns a glamour-backed renderer. An empty style detects the
// terminal background.
func NewRenderer(style string, raw bool) *Renderer {
	return &Renderer{Style: style, Raw: raw, Width: DefaultWordWrap}
}

// Render renders md.
func (r *Renderer) Render(md string) (string, error) {
	if r == nil || r.Raw {
		return md, nil
	}
	width := r.Width
	if width <= 0 {
		width = DefaultWordWrap
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.Style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.Style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
