package captivedns

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"sync"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
)

const (
	// DefaultPort is the standard DNS port. Tests override it.
	DefaultPort = 53

	// answerTTL is deliberately short so that clients drop the captive
	// answer quickly once the device leaves portal mode.
	answerTTL = 10
)

// Resolver answers every name resolution query with one fixed address.
type Resolver struct {
	// Port is the UDP port to serve on. Zero means DefaultPort.
	Port int

	mu     sync.Mutex
	addr   netip.Addr
	server *dns.Server
}

// New creates an unbound resolver.
func New() *Resolver {
	return &Resolver{Port: DefaultPort}
}

// Bind starts answering queries on the given local address. The socket is
// opened synchronously so that a bind failure surfaces to the caller; the
// serving loop then runs on its own goroutine. Binding while already bound
// rebinds to the new address.
func (r *Resolver) Bind(addr netip.Addr) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	port := r.Port
	if port == 0 {
		port = DefaultPort
	}

	conn, err := net.ListenPacket("udp", net.JoinHostPort(addr.String(), strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to bind captive resolver on %s: %w", addr, err)
	}

	r.addr = addr
	r.server = &dns.Server{PacketConn: conn, Handler: r}

	go func(server *dns.Server) {
		if err := server.ActivateAndServe(); err != nil {
			// Shutdown closes the socket out from under the serve loop;
			// anything else is worth a log line.
			logging.Debug("Captive resolver serve loop ended", zap.Error(err))
		}
	}(r.server)

	logging.Info("Captive resolver bound",
		zap.String("addr", addr.String()),
		zap.Int("port", port),
	)
	return nil
}

// Stop releases the resolver's socket. Stopping an unbound resolver is a
// no-op.
func (r *Resolver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Resolver) stopLocked() {
	if r.server == nil {
		return
	}
	_ = r.server.Shutdown()
	r.server = nil
	r.addr = netip.Addr{}
	logging.Info("Captive resolver stopped")
}

// ServeDNS implements dns.Handler with wildcard resolution: whatever name
// was asked for, the answer is the bound address. Non-A questions get an
// empty NOERROR response, which is enough to make dual-stack clients fall
// back to the A answer.
func (r *Resolver) ServeDNS(w dns.ResponseWriter, req *dns.Msg) {
	r.mu.Lock()
	addr := r.addr
	r.mu.Unlock()

	reply := new(dns.Msg)
	reply.SetReply(req)
	reply.Authoritative = true

	for _, question := range req.Question {
		logging.LogDNSQuery(w.RemoteAddr().String(), question.Name, dns.TypeToString[question.Qtype])

		if question.Qtype != dns.TypeA && question.Qtype != dns.TypeANY {
			continue
		}
		if !addr.Is4() {
			continue
		}
		reply.Answer = append(reply.Answer, &dns.A{
			Hdr: dns.RR_Header{
				Name:   question.Name,
				Rrtype: dns.TypeA,
				Class:  dns.ClassINET,
				Ttl:    answerTTL,
			},
			A: net.IP(addr.AsSlice()),
		})
	}

	if err := w.WriteMsg(reply); err != nil {
		logging.Warn("Failed to write captive DNS reply", zap.Error(err))
	}
}
