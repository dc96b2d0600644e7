package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{" _      __", "#818cf8"},
	{"| |__  / _|___ _ __ ", "#a78bfa"},
	{"| '_ \\| |_/ __| '_ ` _ \\", "#c084fc"},
	{"| | | |  _\\__ \\ | | | | |", "#e879f9"},
	{"|_| |_|_| |___/_| |_| |_|", "#f472b6"},
}

// PrintBanner writes the hfsm banner and version to w using the given
// color profile. termenv.Ascii yields plain text.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  "+version).Faint())
	fmt.Fprintln(w)
}
