package wifi

import (
	"context"
	"testing"
)

// TestBroadcasterRejectsWeakPassphrase tests that a short passphrase is
// rejected before any command reaches the radio
func TestBroadcasterRejectsWeakPassphrase(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		wantWeak   bool
	}{
		{"Valid: 8 characters", "yeswecan", false},
		{"Valid: long passphrase", "a-much-longer-passphrase", false},
		{"Invalid: 7 characters", "1234567", true},
		{"Invalid: empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			runner.respond("IP4.ADDRESS", "10.42.0.1/24", nil)

			broadcaster := NewBroadcasterWithRunner("wlan0", runner)
			_, err := broadcaster.Start(context.Background(), "gpioweb-setup", tt.passphrase)

			if tt.wantWeak {
				if !IsWeakPassphrase(err) {
					t.Fatalf("Start() error = %v, want weak passphrase error", err)
				}
				if calls := runner.callsContaining("hotspot"); len(calls) != 0 {
					t.Errorf("Start() touched the radio despite weak passphrase: %v", calls)
				}
			} else if err != nil {
				t.Fatalf("Start() unexpected error: %v", err)
			}
		})
	}
}

// TestBroadcasterStartReturnsAddress tests the happy path
func TestBroadcasterStartReturnsAddress(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("IP4.ADDRESS", "10.42.0.1/24", nil)

	broadcaster := NewBroadcasterWithRunner("wlan0", runner)
	addr, err := broadcaster.Start(context.Background(), "gpioweb-setup", "yeswecan")
	if err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}
	if got := addr.String(); got != "10.42.0.1" {
		t.Errorf("Start() addr = %s, want 10.42.0.1", got)
	}
}

// TestBroadcasterStartIsIdempotent tests that a second Start returns the
// existing address without another hotspot command
func TestBroadcasterStartIsIdempotent(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("IP4.ADDRESS", "10.42.0.1/24", nil)

	broadcaster := NewBroadcasterWithRunner("wlan0", runner)
	first, err := broadcaster.Start(context.Background(), "gpioweb-setup", "yeswecan")
	if err != nil {
		t.Fatalf("first Start() unexpected error: %v", err)
	}
	second, err := broadcaster.Start(context.Background(), "gpioweb-setup", "yeswecan")
	if err != nil {
		t.Fatalf("second Start() unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("second Start() addr = %s, want %s", second, first)
	}
	if calls := runner.callsContaining("hotspot"); len(calls) != 1 {
		t.Errorf("Start() issued %d hotspot commands, want 1", len(calls))
	}
}

// TestBroadcasterStopIsIdempotent tests that stopping twice has the same
// observable effect as stopping once
func TestBroadcasterStopIsIdempotent(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("IP4.ADDRESS", "10.42.0.1/24", nil)

	broadcaster := NewBroadcasterWithRunner("wlan0", runner)
	if _, err := broadcaster.Start(context.Background(), "gpioweb-setup", "yeswecan"); err != nil {
		t.Fatalf("Start() unexpected error: %v", err)
	}

	broadcaster.Stop(context.Background())
	broadcaster.Stop(context.Background())

	if calls := runner.callsContaining("connection down"); len(calls) != 1 {
		t.Errorf("Stop() issued %d connection-down commands, want 1", len(calls))
	}
}

// TestBroadcasterStopBeforeStart tests that Stop on a never-started
// broadcaster is a no-op
func TestBroadcasterStopBeforeStart(t *testing.T) {
	runner := &fakeRunner{}

	broadcaster := NewBroadcasterWithRunner("wlan0", runner)
	broadcaster.Stop(context.Background())

	if len(runner.calls) != 0 {
		t.Errorf("Stop() before Start issued commands: %v", runner.calls)
	}
}
