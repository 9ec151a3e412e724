package tui

import (
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
)

// layout is what the pages know about the terminal they render into.
type layout struct {
	// width is the terminal width in cells, 0 until the first resize.
	width int
	// plain is set when the terminal cannot show colors.
	plain bool
}

func plainProfile(p colorprofile.Profile) bool {
	return p <= colorprofile.Ascii
}

// fit truncates s with an ellipsis so that a line starting with prefix
// fits inside the document frame.
func (l layout) fit(prefix, s string) string {
	if l.width <= 0 {
		return s
	}
	avail := l.width - docStyle.GetHorizontalFrameSize() - ansi.StringWidth(prefix)
	return ansi.Truncate(s, max(avail, 1), "…")
}
