// Package announce advertises the device on the network it has joined.
//
// While the connectivity manager is in the Connected mode, the device
// registers a "_gpioweb._tcp" mDNS service so that the gpioweb-cfg tool can
// find it without knowing its leased address. The announcement stops the
// moment the device leaves the Connected mode; in portal mode the captive
// resolver makes addressing moot.
package announce
