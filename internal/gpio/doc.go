// Package gpio reads the device's digital input pins.
//
// Inputs are purely combinational: a read returns the pin's current logic
// level and nothing else. The Reader interface hides the hardware so the
// rest of the system (and its tests) never touches periph.io directly; the
// production implementation resolves pins by their periph.io names
// ("GPIO4") after initialising the host, and the in-package Fake serves
// tests and development machines without GPIO hardware.
package gpio
