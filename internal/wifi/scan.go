package wifi

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// VisibleNetwork is one entry from a wireless scan.
type VisibleNetwork struct {
	SSID   string `json:"ssid"`
	Signal int    `json:"signal"` // Signal strength percentage (0-100)
	Open   bool   `json:"open"`   // True when the network requires no secret
}

// Scanner lists the networks currently visible to the interface.
// A scan is a direct pass-through to the radio; no state is kept.
type Scanner interface {
	Scan(ctx context.Context) ([]VisibleNetwork, error)
}

// NMScanner implements Scanner on top of NetworkManager's nmcli.
type NMScanner struct {
	// Iface is the wireless interface name (e.g. "wlan0")
	Iface string

	runner Runner
}

// NewScanner creates a scanner for the given wireless interface
func NewScanner(iface string) *NMScanner {
	return NewScannerWithRunner(iface, ExecRunner{})
}

// NewScannerWithRunner creates a scanner with a custom command runner
func NewScannerWithRunner(iface string, runner Runner) *NMScanner {
	return &NMScanner{Iface: iface, runner: runner}
}

// Scan implements Scanner. Hidden networks (empty SSID) are skipped, and
// networks seen on several bands are collapsed to their strongest signal.
func (s *NMScanner) Scan(ctx context.Context) ([]VisibleNetwork, error) {
	out, err := s.runner.Run(ctx, "nmcli", "-t", "-f", "SSID,SIGNAL,SECURITY",
		"device", "wifi", "list", "ifname", s.Iface, "--rescan", "yes")
	if err != nil {
		return nil, NewCommandError("wireless scan failed", err)
	}

	best := make(map[string]VisibleNetwork)
	for _, line := range strings.Split(out, "\n") {
		network, ok := parseScanLine(line)
		if !ok {
			continue
		}
		if seen, dup := best[network.SSID]; !dup || network.Signal > seen.Signal {
			best[network.SSID] = network
		}
	}

	networks := make([]VisibleNetwork, 0, len(best))
	for _, network := range best {
		networks = append(networks, network)
	}
	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Signal > networks[j].Signal
	})
	return networks, nil
}

// parseScanLine parses one line of nmcli's terse scan output, e.g.
//
//	Home Network:72:WPA2
//
// The SSID field may contain colons, which nmcli escapes as "\:".
func parseScanLine(line string) (VisibleNetwork, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return VisibleNetwork{}, false
	}

	fields := splitTerse(line)
	if len(fields) < 3 {
		return VisibleNetwork{}, false
	}

	ssid := fields[0]
	if ssid == "" || ssid == "--" {
		// Hidden network
		return VisibleNetwork{}, false
	}

	signal, err := strconv.Atoi(fields[1])
	if err != nil {
		return VisibleNetwork{}, false
	}

	security := fields[2]
	open := security == "" || security == "--"

	return VisibleNetwork{SSID: ssid, Signal: signal, Open: open}, true
}

// splitTerse splits nmcli terse output on unescaped colons and unescapes
// the "\:" sequences within fields.
func splitTerse(line string) []string {
	var fields []string
	var current strings.Builder
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}
