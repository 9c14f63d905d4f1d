package wifi

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStation(runner *fakeRunner) *NMStation {
	station := NewStationWithRunner("wlan0", runner)
	station.PollInterval = time.Millisecond
	return station
}

// TestAttemptConnected tests a successful association and lease
func TestAttemptConnected(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("GENERAL.STATE", "GENERAL.STATE:100 (connected)", nil)
	runner.respond("IP4.ADDRESS", "192.168.1.23/24", nil)

	station := newTestStation(runner)
	outcome := station.Attempt(context.Background(), Identity{Name: "home", Secret: "secret123"}, time.Second)

	if outcome.Result != ResultConnected {
		t.Fatalf("Attempt() result = %v, want %v", outcome.Result, ResultConnected)
	}
	if got := outcome.Addr.String(); got != "192.168.1.23" {
		t.Errorf("Attempt() addr = %s, want 192.168.1.23", got)
	}
}

// TestAttemptRejectedOnAuthFailure tests rejection when the radio reports
// an authentication failure before the deadline
func TestAttemptRejectedOnAuthFailure(t *testing.T) {
	tests := []struct {
		name  string
		state string
	}{
		{"need-auth", "GENERAL.STATE:60 (need-auth)"},
		{"failed", "GENERAL.STATE:120 (failed)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			runner.respond("GENERAL.STATE", tt.state, nil)

			station := newTestStation(runner)
			outcome := station.Attempt(context.Background(), Identity{Name: "home", Secret: "wrong"}, time.Second)

			if outcome.Result != ResultRejected {
				t.Errorf("Attempt() result = %v, want %v", outcome.Result, ResultRejected)
			}
		})
	}
}

// TestAttemptTimedOut tests that an attempt gives up at the deadline when
// the interface never reaches the activated state
func TestAttemptTimedOut(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("GENERAL.STATE", "GENERAL.STATE:30 (disconnected)", nil)

	station := newTestStation(runner)
	start := time.Now()
	outcome := station.Attempt(context.Background(), Identity{Name: "nowhere"}, 20*time.Millisecond)

	if outcome.Result != ResultTimedOut {
		t.Errorf("Attempt() result = %v, want %v", outcome.Result, ResultTimedOut)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Attempt() took %v, expected to stop near the 20ms deadline", elapsed)
	}
}

// TestAttemptRejectedOnConnectError tests immediate rejection when nmcli
// refuses the connect command itself
func TestAttemptRejectedOnConnectError(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("wifi connect", "Error: No network with SSID 'nope' found.", errors.New("exit status 10"))

	station := newTestStation(runner)
	outcome := station.Attempt(context.Background(), Identity{Name: "nope"}, time.Second)

	if outcome.Result != ResultRejected {
		t.Errorf("Attempt() result = %v, want %v", outcome.Result, ResultRejected)
	}
	if polls := runner.callsContaining("GENERAL.STATE"); len(polls) != 0 {
		t.Errorf("Attempt() polled interface state %d times after refused connect, want 0", len(polls))
	}
}

// TestAttemptSupersedesPreviousAssociation tests that each attempt starts by
// asking the radio to drop any half-open association
func TestAttemptSupersedesPreviousAssociation(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("GENERAL.STATE", "GENERAL.STATE:100 (connected)", nil)
	runner.respond("IP4.ADDRESS", "10.0.0.5/24", nil)

	station := newTestStation(runner)
	station.Attempt(context.Background(), Identity{Name: "home", Secret: "secret123"}, time.Second)

	if got := runner.callsContaining("device disconnect wlan0"); len(got) != 1 {
		t.Errorf("Attempt() issued %d disconnects, want 1", len(got))
	}
}

// TestAttemptOmitsPasswordForOpenNetwork tests that no password argument is
// passed for an open network
func TestAttemptOmitsPasswordForOpenNetwork(t *testing.T) {
	runner := &fakeRunner{}
	runner.respond("GENERAL.STATE", "GENERAL.STATE:100 (connected)", nil)
	runner.respond("IP4.ADDRESS", "10.0.0.5/24", nil)

	station := newTestStation(runner)
	station.Attempt(context.Background(), Identity{Name: "cafe-guest"}, time.Second)

	connects := runner.callsContaining("wifi connect")
	if len(connects) != 1 {
		t.Fatalf("Attempt() issued %d connects, want 1", len(connects))
	}
	if got := runner.callsContaining("password"); len(got) != 0 {
		t.Errorf("Attempt() passed a password for an open network: %v", got)
	}
}

// TestLinkUp tests link state reporting
func TestLinkUp(t *testing.T) {
	tests := []struct {
		name  string
		state string
		err   error
		want  bool
	}{
		{"activated", "GENERAL.STATE:100 (connected)", nil, true},
		{"disconnected", "GENERAL.STATE:30 (disconnected)", nil, false},
		{"query fails", "", errors.New("exit status 10"), false},
		{"garbage output", "something unexpected", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			runner.respond("GENERAL.STATE", tt.state, tt.err)

			station := newTestStation(runner)
			if got := station.LinkUp(context.Background()); got != tt.want {
				t.Errorf("LinkUp() = %v, want %v", got, tt.want)
			}
		})
	}
}
