package portal

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Interval between pin snapshots pushed to the peer
	snapshotPeriod = 1 * time.Second
)

// upgrader accepts any origin: the portal network is the access control
// boundary, and clients arrive from whatever hostname the captive resolver
// answered with.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and streams pin snapshots until
// the peer goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	logging.Debug("Pin stream opened", zap.String("remote_addr", remoteAddr))

	defer func() {
		_ = conn.Close()
		logging.Debug("Pin stream closed", zap.String("remote_addr", remoteAddr))
	}()

	// Drain the read side so close frames and pings are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(snapshotPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(s.readPins()); err != nil {
				return
			}
		}
	}
}
