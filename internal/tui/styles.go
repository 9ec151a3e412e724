package tui

import "charm.land/lipgloss/v2"

var (
	docStyle      = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("183")).MarginTop(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	messageStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")).MarginTop(1)
	buttonStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("91"))
	busyStyle     = buttonStyle.Background(lipgloss.Color("244"))
	dateStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("189"))
	entradaStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("34"))
	salidaStyle   = entradaStyle.Background(lipgloss.Color("160"))
	helpStyle     = lipgloss.NewStyle().MarginTop(1)
)
