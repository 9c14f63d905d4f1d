// Package config loads the device configuration for the gpioweb daemon.
//
// The configuration is a single YAML file, /etc/gpioweb/config.yaml by
// default, describing the fixed facts of the installation: which wireless
// interface to drive, which GPIO pins to expose and under what labels, the
// portal access point's SSID and passphrase, and the station connection
// deadline.
//
// Everything has a sensible default; a missing file yields a valid default
// configuration. Validation happens at load time so that misconfiguration
// (most importantly a portal passphrase below the WPA2 minimum) is caught at
// boot rather than at the moment the device falls back to portal mode.
package config
