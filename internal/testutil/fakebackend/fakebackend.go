// Package fakebackend runs an in-process fichajes backend for tests.
package fakebackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fingertech/fichaje/internal/api"
)

// State is the mutable behaviour of the backend.
type State struct {
	// Users maps DNI to password.
	Users map[string]string
	// Token is issued on login and required on every other endpoint.
	Token string
	// Address is returned by the address lookup.
	Address string
	// AddressStatus overrides the lookup status code when non-zero.
	AddressStatus int
	// Events are the stored fichajes, newest first.
	Events []api.Event
	// CreateStatus and CreateMessage reject new fichajes when CreateStatus is non-zero.
	CreateStatus  int
	CreateMessage string
	// Reports holds the body served for each report format.
	Reports map[api.ReportFormat][]byte
}

// A Call is a request received by the backend.
type Call struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          string
}

// A Backend is a fake fichajes backend listening on a local port.
type Backend struct {
	mu     sync.Mutex
	state  State
	calls  []Call
	server *httptest.Server
	now    func() time.Time
}

// New starts a Backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		state: State{
			Users:   map[string]string{"12345678": "secreto1"},
			Token:   "token-12345678",
			Address: "Calle Mayor 1, Madrid",
			Reports: map[api.ReportFormat][]byte{
				api.ReportCSV:   []byte("fechaHora,tipo\n"),
				api.ReportExcel: []byte("PK\x03\x04"),
			},
		},
		now: time.Now,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL of the backend.
func (b *Backend) URL() *url.URL {
	u, _ := url.Parse(b.server.URL)
	return u
}

// Update changes the backend state.
func (b *Backend) Update(fn func(*State)) {
	b.mu.Lock()
	fn(&b.state)
	b.mu.Unlock()
}

// State returns a copy of the backend state.
func (b *Backend) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.state
	s.Events = append([]api.Event(nil), b.state.Events...)
	return s
}

// Calls returns the requests received for path, in order.
func (b *Backend) Calls(path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Call
	for _, c := range b.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Post(api.EndpointLogin, b.login)
	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get(api.EndpointAddress, b.address)
		r.Get(api.EndpointEvents, b.listEvents)
		r.Post(api.EndpointEvents, b.createEvent)
		r.Get(api.EndpointReports+"{format}", b.report)
	})
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bs, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(bs)))

		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			Body:          string(bs),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		want := "Bearer " + b.state.Token
		b.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"mensaje": "Token inválido o expirado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DNI      string `json:"dni"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"mensaje": "Petición inválida"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.state.Users[req.DNI]; !ok || pw != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"mensaje": "DNI o contraseña incorrectos"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": b.state.Token})
}

func (b *Backend) address(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state.AddressStatus != 0 {
		writeJSON(w, b.state.AddressStatus, map[string]any{"mensaje": "No se pudo resolver la dirección"})
		return
	}
	if r.URL.Query().Get("coordenadas") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"mensaje": "Coordenadas requeridas"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"direccion": b.state.Address})
}

func (b *Backend) listEvents(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"fichajes": b.state.Events})
}

func (b *Backend) createEvent(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Coordinates == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"mensaje": "Coordenadas requeridas"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.CreateStatus != 0 {
		body := map[string]any{}
		if b.state.CreateMessage != "" {
			body["mensaje"] = b.state.CreateMessage
		}
		writeJSON(w, b.state.CreateStatus, body)
		return
	}

	kind := api.KindEntrada
	if len(b.state.Events) > 0 && b.state.Events[0].Kind == api.KindEntrada {
		kind = api.KindSalida
	}
	evt := api.Event{Timestamp: b.now().Format("2006-01-02 15:04:05"), Kind: kind}
	b.state.Events = append([]api.Event{evt}, b.state.Events...)
	writeJSON(w, http.StatusCreated, map[string]any{"fichaje": evt})
}

func (b *Backend) report(w http.ResponseWriter, r *http.Request) {
	format, ok := api.ParseReportFormat(chi.URLParam(r, "format"))

	b.mu.Lock()
	body, found := b.state.Reports[format]
	b.mu.Unlock()
	if !ok || !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"mensaje": "Formato no soportado"})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
