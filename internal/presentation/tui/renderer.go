package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders node labels as markdown using glamour.
// If the renderer cannot be built the labels are passed through unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return func(s string) (string, error) { return s, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
