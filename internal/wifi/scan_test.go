package wifi

import (
	"context"
	"testing"
)

// TestParseScanLine tests parsing of nmcli terse scan output
func TestParseScanLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   VisibleNetwork
		wantOK bool
	}{
		{
			name:   "secured network",
			line:   "Home Network:72:WPA2",
			want:   VisibleNetwork{SSID: "Home Network", Signal: 72, Open: false},
			wantOK: true,
		},
		{
			name:   "open network",
			line:   "cafe-guest:55:",
			want:   VisibleNetwork{SSID: "cafe-guest", Signal: 55, Open: true},
			wantOK: true,
		},
		{
			name:   "open network with dash marker",
			line:   "library:40:--",
			want:   VisibleNetwork{SSID: "library", Signal: 40, Open: true},
			wantOK: true,
		},
		{
			name:   "SSID with escaped colon",
			line:   `lab\:2F:81:WPA2 WPA3`,
			want:   VisibleNetwork{SSID: "lab:2F", Signal: 81, Open: false},
			wantOK: true,
		},
		{name: "hidden network", line: ":60:WPA2", wantOK: false},
		{name: "empty line", line: "", wantOK: false},
		{name: "garbage signal", line: "net:strong:WPA2", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseScanLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseScanLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseScanLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

// TestScanDeduplicatesAndSorts tests that multi-band duplicates collapse to
// the strongest signal and results come back strongest first
func TestScanDeduplicatesAndSorts(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("wifi list", "Home Network:48:WPA2\ncafe-guest:91:\nHome Network:72:WPA2\n:60:WPA2", nil)

	scanner := NewScannerWithRunner("wlan0", runner)
	networks, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}

	want := []VisibleNetwork{
		{SSID: "cafe-guest", Signal: 91, Open: true},
		{SSID: "Home Network", Signal: 72, Open: false},
	}
	if len(networks) != len(want) {
		t.Fatalf("Scan() returned %d networks, want %d: %+v", len(networks), len(want), networks)
	}
	for i := range want {
		if networks[i] != want[i] {
			t.Errorf("Scan()[%d] = %+v, want %+v", i, networks[i], want[i])
		}
	}
}
