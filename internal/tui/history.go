package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fingertech/fichaje/internal/api"
)

func renderHistory(events []api.Event, l layout) string {
	if len(events) == 0 {
		return labelStyle.Render("Sin fichajes")
	}

	// dates share one column so the badges line up
	var dateWidth int
	for _, evt := range events {
		dateWidth = max(dateWidth, runewidth.StringWidth(evt.Timestamp))
	}

	rows := make([]string, 0, len(events))
	for _, evt := range events {
		style := salidaStyle
		if evt.Kind == api.KindEntrada {
			style = entradaStyle
		}
		badge := evt.Kind.Label()
		if l.plain {
			badge = "[" + badge + "]"
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			dateStyle.Render(runewidth.FillRight(evt.Timestamp, dateWidth)), "  ", style.Render(badge)))
	}
	return strings.Join(rows, "\n")
}
