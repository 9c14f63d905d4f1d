package wifi

import (
	"context"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
)

const (
	// DefaultPollInterval is how often an in-flight attempt checks the
	// interface state. Coarse on purpose: association plus DHCP takes
	// seconds, and polling faster only burns cycles.
	DefaultPollInterval = 500 * time.Millisecond

	// stationProfile is the NetworkManager connection profile owned by this
	// package for station-mode attempts. It is recreated on every attempt.
	stationProfile = "gpioweb-station"
)

// NetworkManager device states, per nmcli's GENERAL.STATE field.
const (
	deviceStateNeedAuth  = 60
	deviceStateActivated = 100
	deviceStateFailed    = 120
)

// Result classifies the outcome of one station connection attempt.
// TimedOut and Rejected are routine branches of the connectivity state
// machine, not errors.
type Result int

const (
	// ResultConnected means the radio associated and leased an address
	ResultConnected Result = iota
	// ResultTimedOut means the deadline elapsed with no success. Unreachable
	// networks and captive intermediaries are indistinguishable from this.
	ResultTimedOut
	// ResultRejected means the radio reported an authentication or
	// association failure before the deadline
	ResultRejected
)

// String returns a human-readable name for the result
func (r Result) String() string {
	switch r {
	case ResultConnected:
		return "connected"
	case ResultTimedOut:
		return "timed_out"
	case ResultRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Result(%d)", r)
	}
}

// Outcome carries the attempt result plus the leased address on success.
type Outcome struct {
	Result Result
	Addr   netip.Addr
}

// Station drives one station-mode connection attempt at a time.
type Station interface {
	// Attempt blocks until the radio reports association plus an address
	// lease, the deadline elapses, or the radio rejects the identity.
	// A second Attempt supersedes the first by disassociating first.
	Attempt(ctx context.Context, id Identity, deadline time.Duration) Outcome

	// LinkUp reports whether the interface currently holds a station
	// association. Used by the manager to detect link loss.
	LinkUp(ctx context.Context) bool
}

// NMStation implements Station on top of NetworkManager's nmcli.
type NMStation struct {
	// Iface is the wireless interface name (e.g. "wlan0")
	Iface string

	// PollInterval is how often the attempt loop checks interface state
	PollInterval time.Duration

	runner Runner
}

// NewStation creates a station connector for the given wireless interface
func NewStation(iface string) *NMStation {
	return NewStationWithRunner(iface, ExecRunner{})
}

// NewStationWithRunner creates a station connector with a custom command
// runner. Tests use this to script nmcli responses.
func NewStationWithRunner(iface string, runner Runner) *NMStation {
	return &NMStation{
		Iface:        iface,
		PollInterval: DefaultPollInterval,
		runner:       runner,
	}
}

// Attempt implements Station.
func (s *NMStation) Attempt(ctx context.Context, id Identity, deadline time.Duration) Outcome {
	start := time.Now()

	// Supersede any half-open association from a previous attempt
	_, _ = s.runner.Run(ctx, "nmcli", "device", "disconnect", s.Iface)
	_, _ = s.runner.Run(ctx, "nmcli", "connection", "delete", stationProfile)

	args := []string{"--wait", "0", "device", "wifi", "connect", id.Name}
	if !id.Open() {
		args = append(args, "password", id.Secret)
	}
	args = append(args, "ifname", s.Iface, "name", stationProfile)

	if out, err := s.runner.Run(ctx, "nmcli", args...); err != nil {
		// nmcli refuses up front for unknown SSIDs and malformed secrets
		logging.Warn("Station connect refused",
			zap.String("ssid", id.Name),
			zap.String("output", out),
			zap.Error(err),
		)
		logging.LogAttempt(id.Name, ResultRejected.String(), time.Since(start))
		return Outcome{Result: ResultRejected}
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := time.After(deadline)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.LogAttempt(id.Name, ResultTimedOut.String(), time.Since(start))
			return Outcome{Result: ResultTimedOut}

		case <-timeout:
			logging.LogAttempt(id.Name, ResultTimedOut.String(), time.Since(start))
			return Outcome{Result: ResultTimedOut}

		case <-ticker.C:
			switch s.deviceState(ctx) {
			case deviceStateActivated:
				addr, err := s.leasedAddr(ctx)
				if err != nil {
					// Activated but no lease visible yet; keep polling
					continue
				}
				logging.LogAttempt(id.Name, ResultConnected.String(), time.Since(start))
				return Outcome{Result: ResultConnected, Addr: addr}

			case deviceStateNeedAuth, deviceStateFailed:
				logging.LogAttempt(id.Name, ResultRejected.String(), time.Since(start))
				return Outcome{Result: ResultRejected}
			}
		}
	}
}

// LinkUp implements Station.
func (s *NMStation) LinkUp(ctx context.Context) bool {
	return s.deviceState(ctx) == deviceStateActivated
}

// deviceState returns the NetworkManager device state number for the
// interface, or 0 if it cannot be determined.
func (s *NMStation) deviceState(ctx context.Context) int {
	out, err := s.runner.Run(ctx, "nmcli", "-t", "-f", "GENERAL.STATE", "device", "show", s.Iface)
	if err != nil {
		return 0
	}

	// Output is "GENERAL.STATE:100 (connected)"
	_, value, found := strings.Cut(out, ":")
	if !found {
		return 0
	}
	number, _, _ := strings.Cut(strings.TrimSpace(value), " ")
	state, err := strconv.Atoi(number)
	if err != nil {
		return 0
	}
	return state
}

// leasedAddr returns the interface's first IPv4 address.
func (s *NMStation) leasedAddr(ctx context.Context) (netip.Addr, error) {
	out, err := s.runner.Run(ctx, "nmcli", "-g", "IP4.ADDRESS", "device", "show", s.Iface)
	if err != nil {
		return netip.Addr{}, NewCommandError("failed to query interface address", err)
	}

	// Output is one CIDR per line, e.g. "192.168.1.23/24"
	first, _, _ := strings.Cut(out, "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return netip.Addr{}, &RadioError{Kind: KindNoAddress, Message: "interface has no IPv4 address"}
	}

	prefix, err := netip.ParsePrefix(first)
	if err != nil {
		// Some nmcli versions emit a bare address without the prefix length
		addr, addrErr := netip.ParseAddr(first)
		if addrErr != nil {
			return netip.Addr{}, NewCommandError("unparseable interface address: "+first, err)
		}
		return addr, nil
	}
	return prefix.Addr(), nil
}
