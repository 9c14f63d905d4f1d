package captivedns

import (
	"net"
	"net/netip"
	"strconv"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// fakeResponseWriter captures the reply passed to WriteMsg.
type fakeResponseWriter struct {
	msg *dns.Msg
}

func (f *fakeResponseWriter) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(10, 42, 0, 1), Port: 53}
}
func (f *fakeResponseWriter) RemoteAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(10, 42, 0, 17), Port: 40000}
}
func (f *fakeResponseWriter) WriteMsg(m *dns.Msg) error  { f.msg = m; return nil }
func (f *fakeResponseWriter) Write([]byte) (int, error)  { return 0, nil }
func (f *fakeResponseWriter) Close() error               { return nil }
func (f *fakeResponseWriter) TsigStatus() error          { return nil }
func (f *fakeResponseWriter) TsigTimersOnly(bool)        {}
func (f *fakeResponseWriter) Hijack()                    {}

func boundResolver(addr string) *Resolver {
	r := New()
	r.addr = netip.MustParseAddr(addr)
	return r
}

// TestServeDNSWildcard tests that every queried name resolves to the bound
// address
func TestServeDNSWildcard(t *testing.T) {
	tests := []struct {
		name  string
		qname string
	}{
		{"plain host", "example.com."},
		{"OS connectivity probe", "connectivitycheck.gstatic.com."},
		{"apple probe", "captive.apple.com."},
		{"arbitrary subdomain", "a.very.deep.subdomain.test."},
	}

	resolver := boundResolver("10.42.0.1")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := new(dns.Msg)
			req.SetQuestion(tt.qname, dns.TypeA)

			w := &fakeResponseWriter{}
			resolver.ServeDNS(w, req)

			if w.msg == nil {
				t.Fatal("ServeDNS() wrote no reply")
			}
			if !w.msg.Authoritative {
				t.Error("ServeDNS() reply not authoritative")
			}
			if len(w.msg.Answer) != 1 {
				t.Fatalf("ServeDNS() returned %d answers, want 1", len(w.msg.Answer))
			}
			a, ok := w.msg.Answer[0].(*dns.A)
			if !ok {
				t.Fatalf("ServeDNS() answer type = %T, want *dns.A", w.msg.Answer[0])
			}
			if a.Hdr.Name != tt.qname {
				t.Errorf("ServeDNS() answer name = %s, want %s", a.Hdr.Name, tt.qname)
			}
			if got := a.A.String(); got != "10.42.0.1" {
				t.Errorf("ServeDNS() answer = %s, want 10.42.0.1", got)
			}
		})
	}
}

// TestServeDNSNonAQuery tests that non-A queries get an empty NOERROR reply
func TestServeDNSNonAQuery(t *testing.T) {
	resolver := boundResolver("10.42.0.1")

	req := new(dns.Msg)
	req.SetQuestion("example.com.", dns.TypeAAAA)

	w := &fakeResponseWriter{}
	resolver.ServeDNS(w, req)

	if w.msg == nil {
		t.Fatal("ServeDNS() wrote no reply")
	}
	if w.msg.Rcode != dns.RcodeSuccess {
		t.Errorf("ServeDNS() rcode = %d, want NOERROR", w.msg.Rcode)
	}
	if len(w.msg.Answer) != 0 {
		t.Errorf("ServeDNS() returned %d answers for AAAA, want 0", len(w.msg.Answer))
	}
}

// TestBindServeStop tests a real bind/query/stop cycle over UDP
func TestBindServeStop(t *testing.T) {
	resolver := New()
	resolver.Port = freeUDPPort(t)

	if err := resolver.Bind(netip.MustParseAddr("127.0.0.1")); err != nil {
		t.Fatalf("Bind() unexpected error: %v", err)
	}
	defer resolver.Stop()

	client := &dns.Client{Timeout: 2 * time.Second}
	req := new(dns.Msg)
	req.SetQuestion("anything.example.org.", dns.TypeA)

	target := net.JoinHostPort("127.0.0.1", strconv.Itoa(resolver.Port))
	reply, _, err := client.Exchange(req, target)
	if err != nil {
		t.Fatalf("Exchange() unexpected error: %v", err)
	}
	if len(reply.Answer) != 1 {
		t.Fatalf("Exchange() returned %d answers, want 1", len(reply.Answer))
	}
	a, ok := reply.Answer[0].(*dns.A)
	if !ok {
		t.Fatalf("answer type = %T, want *dns.A", reply.Answer[0])
	}
	if got := a.A.String(); got != "127.0.0.1" {
		t.Errorf("answer = %s, want 127.0.0.1", got)
	}

	// Stop must be idempotent
	resolver.Stop()
	resolver.Stop()
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to pick a free port: %v", err)
	}
	port := conn.LocalAddr().(*net.UDPAddr).Port
	conn.Close()
	return port
}
