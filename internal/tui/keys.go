package tui

import (
	"charm.land/bubbles/v2/key"
)

type loginKeyMap struct {
	Submit key.Binding
	Next   key.Binding
	Reveal key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Next, k.Reveal, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var loginKeys = loginKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "ingresar"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "shift+tab", "up", "down"),
		key.WithHelp("tab", "cambiar campo"),
	),
	Reveal: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "mostrar contraseña"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "salir"),
	),
}

type fichajeKeyMap struct {
	Fichar   key.Binding
	Camera   key.Binding
	Snap     key.Binding
	Discard  key.Binding
	Relocate key.Binding
	Logout   key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k fichajeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fichar, k.Camera, k.Snap, k.Discard, k.Relocate, k.Logout, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k fichajeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var fichajeKeys = fichajeKeyMap{
	Fichar: key.NewBinding(
		key.WithKeys("enter", "f"),
		key.WithHelp("f", "fichar"),
	),
	Camera: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cámara"),
	),
	Snap: key.NewBinding(
		key.WithKeys("s", "space"),
		key.WithHelp("s", "capturar"),
	),
	Discard: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "descartar foto"),
	),
	Relocate: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "actualizar ubicación"),
	),
	Logout: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "cerrar sesión"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "salir"),
	),
}
