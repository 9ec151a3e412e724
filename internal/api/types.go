package api

import (
	"strings"
)

// backend endpoints
const (
	EndpointLogin   = "/api/usuarios/login"
	EndpointAddress = "/api/obtener-direccion"
	EndpointEvents  = "/api/fichajes"
	EndpointReports = "/api/reportes/fichajes/"
)

// Kind is the type of a fichaje.
type Kind string

// fichaje kinds
const (
	KindEntrada Kind = "entrada"
	KindSalida  Kind = "salida"
)

// Label returns the kind as shown to users.
func (k Kind) Label() string {
	return strings.ToUpper(string(k))
}

// An Event is a single fichaje as returned by the backend.
type Event struct {
	Timestamp string `json:"fechaHora"`
	Kind      Kind   `json:"tipo"`
}

// A CreateEventRequest is the body of a new fichaje.
type CreateEventRequest struct {
	// Coordinates is "lat,lon".
	Coordinates string `json:"coordenadas"`
	// Image is an optional data URL with a photo of the user.
	Image string `json:"imagen,omitempty"`
}

// ReportFormat selects the export format of the fichajes report.
type ReportFormat string

// report formats
const (
	ReportCSV   ReportFormat = "csv"
	ReportExcel ReportFormat = "excel"
)

// ParseReportFormat parses a report format name.
func ParseReportFormat(raw string) (ReportFormat, bool) {
	switch f := ReportFormat(strings.ToLower(raw)); f {
	case ReportCSV, ReportExcel:
		return f, true
	}
	return "", false
}

// Ext returns the file extension for reports in format f.
func (f ReportFormat) Ext() string {
	if f == ReportExcel {
		return ".xlsx"
	}
	return ".csv"
}

type loginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type addressResponse struct {
	Address string `json:"direccion"`
}

type eventsResponse struct {
	Events []Event `json:"fichajes"`
}

type createEventResponse struct {
	Event *Event `json:"fichaje"`
}
