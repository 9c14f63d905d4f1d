package portal

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/config"
	"github.com/seancottonau/gpioweb/internal/gpio"
	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/manager"
	"github.com/seancottonau/gpioweb/internal/wifi"
)

const (
	// readHeaderTimeout bounds slow clients before the handler runs
	readHeaderTimeout = 5 * time.Second

	// shutdownTimeout bounds the graceful drain of in-flight requests
	shutdownTimeout = 10 * time.Second
)

// Control is the slice of the connectivity manager the HTTP layer needs.
type Control interface {
	CurrentMode() manager.Mode
	LocalAddr() netip.Addr
	Submit(id wifi.Identity) manager.Ticket
	Poll(ticket manager.Ticket) (manager.TicketStatus, bool)
	Reset(ctx context.Context) error
}

// Options holds the server's collaborators and listen address.
type Options struct {
	Addr    string
	Control Control
	Reader  gpio.Reader
	Scanner wifi.Scanner
	Pins    []config.Pin
}

// Server serves the portal page, the JSON API, and the pin stream.
type Server struct {
	opts Options
	http *http.Server
}

// New creates a Server. Start must be called for it to serve.
func New(opts Options) *Server {
	s := &Server{opts: opts}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Start serves until ctx is cancelled, then drains in-flight requests and
// returns. A listen failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("Starting portal HTTP server",
		zap.String("addr", s.opts.Addr),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Shutting down portal HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Portal shutdown did not drain cleanly", zap.Error(err))
	}
	return nil
}

// routes builds the request multiplexer.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/mode", s.handleMode)
	mux.HandleFunc("/api/pins", s.handlePins)
	mux.HandleFunc("/api/networks", s.handleNetworks)
	mux.HandleFunc("/api/wifi", s.handleSubmit)
	mux.HandleFunc("/api/wifi/status", s.handleTicketStatus)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// OS captive-portal probes. A redirect instead of the expected body
	// makes the client open its sign-in sheet pointed at our page.
	for _, probe := range []string{
		"/generate_204",        // Android
		"/gen_204",             // Android (older)
		"/hotspot-detect.html", // Apple
		"/ncsi.txt",            // Windows
		"/connecttest.txt",     // Windows 10+
	} {
		mux.HandleFunc(probe, s.handleProbe)
	}

	return s.logRequests(mux)
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
