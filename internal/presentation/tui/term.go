package tui

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of w, or 0 when unknown.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// Profile picks the color profile for w: the detected one on a terminal,
// termenv.Ascii otherwise.
func Profile(w io.Writer) termenv.Profile {
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).ColorProfile()
}

// RendererFor returns a glamour renderer on terminals and Plain otherwise.
func RendererFor(w io.Writer) Renderer {
	if !IsTerminal(w) {
		return Plain
	}
	r, err := NewRenderer(Width(w))
	if err != nil {
		return Plain
	}
	return r
}
