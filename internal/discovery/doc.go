// Package discovery finds gpioweb devices on the local network.
//
// It is the browse side of the mDNS contract whose register side lives in
// package announce: devices advertise "_gpioweb._tcp" while connected, and
// the gpioweb-cfg tool browses for those advertisements instead of asking
// the operator for an IP address.
package discovery
