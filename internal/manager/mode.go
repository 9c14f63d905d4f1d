package manager

import "fmt"

// Mode is the externally observable connectivity state. Exactly one mode is
// active at any instant.
type Mode int

const (
	// ModeUninitialized is the boot state, before the stored credential has
	// been consulted
	ModeUninitialized Mode = iota
	// ModeConnecting means a station connection attempt is in flight
	ModeConnecting
	// ModeConnected means the device is joined to a network and has an
	// address
	ModeConnected
	// ModePortalActive means the device hosts its own access point and
	// captive configuration portal
	ModePortalActive
)

// String returns the wire name of the mode as used by the HTTP API
func (m Mode) String() string {
	switch m {
	case ModeUninitialized:
		return "uninitialized"
	case ModeConnecting:
		return "connecting"
	case ModeConnected:
		return "connected"
	case ModePortalActive:
		return "portal_active"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}
