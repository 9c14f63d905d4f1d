package wifi

import (
	"context"
	"net/netip"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
)

const (
	// MinPassphraseLen is the WPA2-PSK minimum passphrase length. Shorter
	// passphrases are rejected before the radio is touched.
	MinPassphraseLen = 8

	// portalProfile is the NetworkManager connection profile owned by this
	// package for the portal's access point.
	portalProfile = "gpioweb-portal"
)

// Broadcaster stands up the portal's own broadcast network.
type Broadcaster interface {
	// Start brings up the access point and returns the device's address on
	// it. Starting while already started is an idempotent no-op returning
	// the existing address.
	Start(ctx context.Context, ssid string, passphrase string) (netip.Addr, error)

	// Stop tears the access point down. Stopping an already stopped
	// broadcaster is a no-op.
	Stop(ctx context.Context)
}

// NMBroadcaster implements Broadcaster on top of NetworkManager's nmcli.
type NMBroadcaster struct {
	// Iface is the wireless interface name (e.g. "wlan0")
	Iface string

	runner Runner

	mu     sync.Mutex
	active bool
	addr   netip.Addr
}

// NewBroadcaster creates a broadcaster for the given wireless interface
func NewBroadcaster(iface string) *NMBroadcaster {
	return NewBroadcasterWithRunner(iface, ExecRunner{})
}

// NewBroadcasterWithRunner creates a broadcaster with a custom command runner
func NewBroadcasterWithRunner(iface string, runner Runner) *NMBroadcaster {
	return &NMBroadcaster{Iface: iface, runner: runner}
}

// Start implements Broadcaster.
func (b *NMBroadcaster) Start(ctx context.Context, ssid string, passphrase string) (netip.Addr, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active {
		return b.addr, nil
	}

	if ssid == "" {
		return netip.Addr{}, NewValidationError("access point SSID must not be empty")
	}
	if len(passphrase) < MinPassphraseLen {
		return netip.Addr{}, NewWeakPassphraseError(len(passphrase))
	}

	out, err := b.runner.Run(ctx, "nmcli", "device", "wifi", "hotspot",
		"ifname", b.Iface,
		"con-name", portalProfile,
		"ssid", ssid,
		"password", passphrase,
	)
	if err != nil {
		return netip.Addr{}, NewAccessPointError("failed to start access point: "+out, err)
	}

	addr, err := b.hotspotAddr(ctx)
	if err != nil {
		// An AP without a reachable address is useless; tear it back down
		b.teardown(ctx)
		return netip.Addr{}, err
	}

	b.active = true
	b.addr = addr
	logging.Info("Access point started",
		zap.String("ssid", ssid),
		zap.String("addr", addr.String()),
	)
	return addr, nil
}

// Stop implements Broadcaster.
func (b *NMBroadcaster) Stop(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.teardown(ctx)
	b.active = false
	b.addr = netip.Addr{}
	logging.Info("Access point stopped")
}

// teardown removes the hotspot profile. Errors are ignored: the profile may
// already be gone, and there is nothing further to do about a failed delete.
func (b *NMBroadcaster) teardown(ctx context.Context) {
	_, _ = b.runner.Run(ctx, "nmcli", "connection", "down", portalProfile)
	_, _ = b.runner.Run(ctx, "nmcli", "connection", "delete", portalProfile)
}

// hotspotAddr returns the interface's IPv4 address on the freshly started
// access point. NetworkManager assigns one in shared mode (10.42.0.1 by
// default).
func (b *NMBroadcaster) hotspotAddr(ctx context.Context) (netip.Addr, error) {
	out, err := b.runner.Run(ctx, "nmcli", "-g", "IP4.ADDRESS", "device", "show", b.Iface)
	if err != nil {
		return netip.Addr{}, NewAccessPointError("failed to query access point address", err)
	}

	first, _, _ := strings.Cut(out, "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return netip.Addr{}, &RadioError{Kind: KindNoAddress, Message: "access point has no IPv4 address"}
	}

	if prefix, err := netip.ParsePrefix(first); err == nil {
		return prefix.Addr(), nil
	}
	addr, err := netip.ParseAddr(first)
	if err != nil {
		return netip.Addr{}, NewAccessPointError("unparseable access point address: "+first, err)
	}
	return addr, nil
}
