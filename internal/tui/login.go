package tui

import (
	"context"
	"strings"
	"unicode"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/fingertech/fichaje/internal/auth"
)

type loginResultMsg struct {
	res auth.Result
}

type loginPage struct {
	ctx   context.Context
	deps  Deps
	dni   textinput.Model
	pass  textinput.Model
	focus int

	showPassword bool
	loading      bool
	message      string
}

func newLoginPage(ctx context.Context, deps Deps) loginPage {
	dni := textinput.New()
	dni.Prompt = "DNI: "
	dni.Placeholder = "Ingrese su DNI"
	dni.CharLimit = 9
	dni.Focus()

	pass := textinput.New()
	pass.Prompt = "Contraseña: "
	pass.Placeholder = "Ingrese su contraseña"
	pass.EchoMode = textinput.EchoPassword

	return loginPage{ctx: ctx, deps: deps, dni: dni, pass: pass}
}

func (p loginPage) Init() tea.Cmd {
	return nil
}

func (p loginPage) Update(msg tea.Msg) (loginPage, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		p.loading = false
		p.message = msg.res.Message
		if msg.res.OK {
			return p, navigateAfter(p.deps.LoginRedirectDelay, RouteFichajes)
		}
		return p, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, loginKeys.Quit):
			return p, quit
		case key.Matches(msg, loginKeys.Submit):
			return p.submit()
		case key.Matches(msg, loginKeys.Next):
			return p, p.toggleFocus()
		case key.Matches(msg, loginKeys.Reveal):
			p.showPassword = !p.showPassword
			if p.showPassword {
				p.pass.EchoMode = textinput.EchoNormal
			} else {
				p.pass.EchoMode = textinput.EchoPassword
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	if p.focus == 0 {
		p.dni, cmd = p.dni.Update(msg)
		if v := p.dni.Value(); strings.IndexFunc(v, notDigit) >= 0 {
			p.dni.SetValue(strings.Map(func(r rune) rune {
				if notDigit(r) {
					return -1
				}
				return r
			}, v))
		}
	} else {
		p.pass, cmd = p.pass.Update(msg)
	}
	return p, cmd
}

func notDigit(r rune) bool {
	return r > unicode.MaxASCII || !unicode.IsDigit(r)
}

func (p *loginPage) toggleFocus() tea.Cmd {
	if p.focus == 0 {
		p.focus = 1
		p.dni.Blur()
		return p.pass.Focus()
	}
	p.focus = 0
	p.pass.Blur()
	return p.dni.Focus()
}

func (p loginPage) submit() (loginPage, tea.Cmd) {
	if p.loading {
		return p, nil
	}
	dni, password := p.dni.Value(), p.pass.Value()
	if err := auth.ValidateCredentials(dni, password); err != nil {
		p.message = err.Error()
		return p, nil
	}

	p.loading = true
	p.message = ""
	gate, ctx := p.deps.Gate, p.ctx
	return p, func() tea.Msg {
		return loginResultMsg{res: gate.Login(ctx, dni, password)}
	}
}

func (p loginPage) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bienvenido a Fingertech"))
	b.WriteString("\n")
	b.WriteString(p.dni.View())
	b.WriteString("\n")
	b.WriteString(p.pass.View())
	b.WriteString("\n\n")
	if p.loading {
		b.WriteString(busyStyle.Render("Iniciando sesión..."))
	} else {
		b.WriteString(buttonStyle.Render("Ingresar"))
	}
	if p.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(p.message))
	}
	return b.String()
}
