// Package deviceapi is the workstation-side client for a gpioweb device's
// HTTP API.
//
// It wraps the device's JSON routes (/api/mode, /api/pins, /api/networks,
// /api/wifi, /api/wifi/status, /api/reset) behind typed methods, and adds
// a helper that submits a credential and polls the resulting ticket until
// it resolves. The gpioweb-cfg utility is its only consumer, but the
// package has no CLI dependencies and can back other tooling.
package deviceapi
