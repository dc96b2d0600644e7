package tui

import (
	"strings"

	"github.com/muesli/termenv"
)

// PathStyle colors an active path: groups dimmed, the current leaf bold.
type PathStyle struct {
	Profile termenv.Profile
}

// Format joins path with " > ". An empty path renders as "(idle)".
func (s PathStyle) Format(path []string) string {
	if len(path) == 0 {
		return s.Profile.String("(idle)").Faint().String()
	}
	parts := make([]string, len(path))
	for i, p := range path {
		str := s.Profile.String(p)
		if i == len(path)-1 {
			str = str.Bold().Foreground(s.Profile.Color("#fbbf24"))
		} else {
			str = str.Foreground(s.Profile.Color("#818cf8"))
		}
		parts[i] = str.String()
	}
	return strings.Join(parts, " > ")
}
