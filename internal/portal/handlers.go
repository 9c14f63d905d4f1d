package portal

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/manager"
	"github.com/seancottonau/gpioweb/internal/wifi"
)

// pinReading is one pin's state as reported over the API.
type pinReading struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Level string `json:"level"`
	Error string `json:"error,omitempty"`
}

// modeResponse reports the device's connectivity mode and address.
type modeResponse struct {
	Mode string `json:"mode"`
	Addr string `json:"addr,omitempty"`
}

// submitRequest is the body of a credential submission.
type submitRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// submitResponse carries the ticket issued for a submission.
type submitResponse struct {
	Ticket string `json:"ticket"`
}

// ticketResponse is a ticket's status as reported over the API.
type ticketResponse struct {
	State     string `json:"state"`
	Persisted bool   `json:"persisted"`
	Message   string `json:"message,omitempty"`
}

// errorResponse is the JSON shape of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// The mux routes every unregistered path here; only the root is a page
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{
		Mode: s.opts.Control.CurrentMode().String(),
		Pins: s.readPins(),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		logging.Error("Failed to render portal page", zap.Error(err))
	}
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := modeResponse{Mode: s.opts.Control.CurrentMode().String()}
	if addr := s.opts.Control.LocalAddr(); addr.IsValid() {
		resp.Addr = addr.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.readPins())
}

func (s *Server) handleNetworks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	networks, err := s.opts.Scanner.Scan(r.Context())
	if err != nil {
		logging.Error("Network scan failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "scan failed")
		return
	}
	if networks == nil {
		networks = []wifi.VisibleNetwork{}
	}
	writeJSON(w, http.StatusOK, networks)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ticket := s.opts.Control.Submit(wifi.Identity{Name: req.Name, Secret: req.Secret})
	writeJSON(w, http.StatusAccepted, submitResponse{Ticket: string(ticket)})
}

func (s *Server) handleTicketStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		writeError(w, http.StatusBadRequest, "missing ticket parameter")
		return
	}

	status, ok := s.opts.Control.Poll(manager.Ticket(ticket))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown ticket")
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse{
		State:     status.State.String(),
		Persisted: status.Persisted,
		Message:   status.Message,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.opts.Control.Reset(r.Context()); err != nil {
		// The transition to portal mode happens regardless; report the
		// failed erase but do not pretend the reset was refused
		logging.Error("Credential erase failed during reset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "credential erase failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// readPins reads every configured pin, reporting per-pin errors in place
// rather than failing the whole snapshot.
func (s *Server) readPins() []pinReading {
	readings := make([]pinReading, 0, len(s.opts.Pins))
	for _, pin := range s.opts.Pins {
		reading := pinReading{Label: pin.Label, Name: pin.Name}
		level, err := s.opts.Reader.Read(pin.Name)
		if err != nil {
			reading.Error = err.Error()
		} else {
			reading.Level = level.String()
		}
		readings = append(readings, reading)
	}
	return readings
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
