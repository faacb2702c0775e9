package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Sprig ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ____             _       ", "#34d399"},
		{" / ___| _ __  _ __(_) __ _ ", "#2dd4bf"},
		{" \\___ \\| '_ \\| '__| |/ _` |", "#22d3ee"},
		{"  ___) | |_) | |  | | (_| |", "#38bdf8"},
		{" |____/| .__/|_|  |_|\\__, |", "#60a5fa"},
		{"       |_|           |___/ ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
