package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/fingertech/fichaje/internal/capture"
	"github.com/fingertech/fichaje/internal/checkin"
	"github.com/fingertech/fichaje/internal/location"
	"github.com/fingertech/fichaje/internal/log"
)

type (
	locationMsg struct{ res location.Result }
	historyMsg  struct{ err error }
	submitMsg   struct{ res checkin.Result }
	cameraMsg   struct{ err error }
	snapMsg     struct {
		img *capture.Image
		err error
	}
)

type fichajePage struct {
	ctx  context.Context
	deps Deps

	loc        location.Result
	resolving  bool
	submitting bool
	expired    bool
	message    string
	cameraErr  error
}

// newFichajePage returns a page that is resolving its location; Init
// starts the resolution.
func newFichajePage(ctx context.Context, deps Deps) fichajePage {
	return fichajePage{ctx: ctx, deps: deps, resolving: true}
}

func (p *fichajePage) resolve() tea.Cmd {
	if p.resolving {
		return nil
	}
	p.resolving = true
	return p.resolveCmd()
}

func (p fichajePage) resolveCmd() tea.Cmd {
	resolver, ctx := p.deps.Resolver, p.ctx
	return func() tea.Msg {
		return locationMsg{res: resolver.Resolve(ctx)}
	}
}

func (p fichajePage) refresh() tea.Cmd {
	submitter, ctx := p.deps.Submitter, p.ctx
	return func() tea.Msg {
		return historyMsg{err: submitter.Refresh(ctx)}
	}
}

func (p fichajePage) Init() tea.Cmd {
	return tea.Batch(p.resolveCmd(), p.refresh())
}

func (p fichajePage) Update(msg tea.Msg) (fichajePage, tea.Cmd) {
	switch msg := msg.(type) {
	case locationMsg:
		p.resolving = false
		p.loc = msg.res
		return p, nil

	case historyMsg:
		return p, nil

	case submitMsg:
		p.submitting = false
		if msg.res.Message != "" {
			p.message = msg.res.Message
		}
		if msg.res.Expired {
			p.expired = true
			return p, navigateAfter(p.deps.ExpiryRedirectDelay, RouteLogin)
		}
		return p, nil

	case cameraMsg:
		p.cameraErr = msg.err
		return p, nil

	case snapMsg:
		p.cameraErr = msg.err
		return p, nil

	case tea.KeyPressMsg:
		if p.expired {
			if key.Matches(msg, fichajeKeys.Quit) {
				return p, quit
			}
			return p, nil
		}
		switch {
		case key.Matches(msg, fichajeKeys.Quit):
			return p, quit
		case key.Matches(msg, fichajeKeys.Fichar):
			return p.submit()
		case key.Matches(msg, fichajeKeys.Camera):
			return p, p.camera()
		case key.Matches(msg, fichajeKeys.Snap):
			return p, p.snap()
		case key.Matches(msg, fichajeKeys.Discard):
			p.deps.Widget.Discard()
			return p, nil
		case key.Matches(msg, fichajeKeys.Relocate):
			return p, p.resolve()
		case key.Matches(msg, fichajeKeys.Logout):
			if err := p.deps.Gate.Logout(); err != nil {
				log.Warn(p.ctx).Err(err).Msg("tui: failed to clear session")
			}
			return p, navigate(RouteLogin)
		}
	}
	return p, nil
}

func (p fichajePage) submit() (fichajePage, tea.Cmd) {
	if p.submitting || p.resolving {
		return p, nil
	}
	// an invalid location is re-resolved so the next attempt can succeed
	if !p.loc.Valid() {
		p.message = checkin.MessageInvalidLocation
		return p, p.resolve()
	}

	p.submitting = true
	submitter, widget, loc, ctx := p.deps.Submitter, p.deps.Widget, p.loc, p.ctx
	return p, func() tea.Msg {
		return submitMsg{res: submitter.Submit(ctx, loc, widget)}
	}
}

func (p fichajePage) camera() tea.Cmd {
	widget, ctx := p.deps.Widget, p.ctx
	if !widget.Available() {
		return func() tea.Msg { return cameraMsg{err: capture.ErrNoCamera} }
	}
	return func() tea.Msg {
		switch widget.State() {
		case capture.ImageCaptured:
			return cameraMsg{err: widget.Retake(ctx)}
		default:
			return cameraMsg{err: widget.Open(ctx)}
		}
	}
}

func (p fichajePage) snap() tea.Cmd {
	widget, ctx := p.deps.Widget, p.ctx
	return func() tea.Msg {
		img, err := widget.Snap(ctx)
		return snapMsg{img: img, err: err}
	}
}

func (p fichajePage) View(l layout) string {
	const (
		locationLabel = "Ubicación: "
		cameraLabel   = "Cámara: "
	)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Registrar Fichaje"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(locationLabel) + l.fit(locationLabel, p.locationText()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(cameraLabel) + l.fit(cameraLabel, p.cameraText()))
	b.WriteString("\n\n")
	if p.submitting {
		b.WriteString(busyStyle.Render("⏳ Fichando..."))
	} else {
		b.WriteString(buttonStyle.Render("📌 Fichar"))
	}
	if p.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(p.message))
	}
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Historial Reciente"))
	b.WriteString("\n")
	b.WriteString(renderHistory(p.deps.Submitter.History().Events(), l))
	return b.String()
}

func (p fichajePage) locationText() string {
	switch {
	case p.resolving:
		return location.Pending
	case !p.loc.Address.OK():
		return p.loc.Address.String()
	}
	return "📍 " + p.loc.Address.String()
}

func (p fichajePage) cameraText() string {
	widget := p.deps.Widget
	var text string
	// a submission may discard the image at any time; read it once
	if img := widget.Image(); img != nil {
		text = fmt.Sprintf("📷 foto %dx%d lista, c para repetir, x para descartar", img.Width, img.Height)
	} else {
		switch {
		case !widget.Available():
			text = "no disponible"
		case widget.State() == capture.CameraActive:
			text = "activa, pulsa s para capturar"
		default:
			text = "pulsa c para abrir"
		}
	}
	if p.cameraErr != nil {
		text += " (" + p.cameraErr.Error() + ")"
	}
	return text
}
