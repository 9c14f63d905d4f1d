// Package credstore persists the single network credential across power
// cycles.
//
// The device knows at most one network identity at a time: a save overwrites
// whatever was stored before, and only an explicit reset erases it. Absence
// of a stored credential is a valid state, not an error — it is what sends
// the device into portal mode at boot.
//
// Load deliberately never fails the caller. A corrupt or unreadable file and
// a missing file demand the same reaction from the connectivity manager
// (fall back to the portal), so read failures are logged and reported as
// "no credential".
//
// The on-disk form is a small YAML file with 0600 permissions, written
// atomically via a temporary file and rename.
package credstore
