// Package wifi drives the device's single wireless interface.
//
// The interface can be in one of two roles at a time: station mode, joining
// an existing network with a stored or user-submitted identity, or
// access-point mode, hosting the configuration portal's own network. The
// package exposes one type per role plus a stateless scanner:
//
//   - Station: one bounded connection attempt against an Identity, with the
//     three routine outcomes Connected, TimedOut and Rejected. These are
//     ordinary state-machine branches, not errors.
//   - Broadcaster: starts and stops the portal's access point. Start and Stop
//     are both idempotent.
//   - Scanner: lists currently visible networks, a direct pass-through with
//     no state.
//
// All three are backed by NetworkManager's nmcli on Linux. Shelling out is
// deliberate: nmcli owns wpa_supplicant, DHCP and interface state, and
// re-implementing that against D-Bus buys nothing on a single-interface
// device. Commands go through the Runner interface so tests substitute a
// scripted fake and never touch the real interface.
//
// # Supersession
//
// There is no mid-attempt cancellation. A new Attempt call first instructs
// nmcli to disconnect the interface, which tears down any half-open
// association from a previous attempt, then starts fresh.
package wifi
