package gpio

import (
	"errors"
	"testing"
)

// TestLevelString tests level formatting
func TestLevelString(t *testing.T) {
	if High.String() != "high" || Low.String() != "low" {
		t.Errorf("Level strings = %s/%s, want high/low", High, Low)
	}
}

// TestFakeReader tests the fake's read semantics
func TestFakeReader(t *testing.T) {
	fake := NewFake()
	fake.Set("GPIO4", High)
	fake.Fail("GPIO17", errors.New("wire fell off"))

	level, err := fake.Read("GPIO4")
	if err != nil {
		t.Fatalf("Read(GPIO4) unexpected error: %v", err)
	}
	if level != High {
		t.Errorf("Read(GPIO4) = %v, want High", level)
	}

	// Unset pins read Low
	level, err = fake.Read("GPIO22")
	if err != nil {
		t.Fatalf("Read(GPIO22) unexpected error: %v", err)
	}
	if level != Low {
		t.Errorf("Read(GPIO22) = %v, want Low", level)
	}

	if _, err := fake.Read("GPIO17"); err == nil {
		t.Error("Read(GPIO17) expected error, got nil")
	}
}
