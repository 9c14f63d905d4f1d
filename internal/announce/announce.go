package announce

import (
	"fmt"
	"net/netip"
	"os"
	"sync"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/version"
)

const (
	// ServiceType is the mDNS service type gpioweb devices advertise under
	ServiceType = "_gpioweb._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// Zeroconf announces the device via mDNS/DNS-SD.
type Zeroconf struct {
	// Instance is the advertised service instance name
	Instance string

	// Port is the advertised HTTP port
	Port int

	mu     sync.Mutex
	server *zeroconf.Server
}

// New creates an announcer. An empty instance name falls back to
// "gpioweb-<hostname>".
func New(instance string, port int) *Zeroconf {
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "device"
		}
		instance = fmt.Sprintf("gpioweb-%s", hostname)
	}
	return &Zeroconf{Instance: instance, Port: port}
}

// Start registers the mDNS service. Starting while already started is a
// no-op.
func (z *Zeroconf) Start(addr netip.Addr) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		return nil
	}

	txt := []string{
		"addr=" + addr.String(),
		"version=" + version.Version,
	}
	server, err := zeroconf.Register(z.Instance, ServiceType, ServiceDomain, z.Port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	z.server = server

	logging.Info("Device presence announced",
		zap.String("instance", z.Instance),
		zap.String("service", ServiceType),
		zap.Int("port", z.Port),
	)
	return nil
}

// Stop withdraws the announcement. Stopping an unstarted announcer is a
// no-op.
func (z *Zeroconf) Stop() {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server == nil {
		return
	}
	z.server.Shutdown()
	z.server = nil
	logging.Info("Device presence withdrawn")
}
