package wifi

import (
	"strings"
	"testing"
)

// TestIdentityValidate tests identity validation rules
func TestIdentityValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		wantErr bool
	}{
		{"Valid: name and secret", Identity{Name: "home", Secret: "secret123"}, false},
		{"Valid: open network", Identity{Name: "cafe-guest"}, false},
		{"Valid: name at 32 bytes", Identity{Name: strings.Repeat("a", 32)}, false},
		{"Valid: secret at 64 bytes", Identity{Name: "home", Secret: strings.Repeat("p", 64)}, false},
		{"Invalid: empty name", Identity{Secret: "secret123"}, true},
		{"Invalid: name over 32 bytes", Identity{Name: strings.Repeat("a", 33)}, true},
		{"Invalid: secret over 64 bytes", Identity{Name: "home", Secret: strings.Repeat("p", 65)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("Expected validation error, got %T", err)
			}
		})
	}
}

// TestIdentityOpen tests open-network detection
func TestIdentityOpen(t *testing.T) {
	if !(Identity{Name: "cafe"}).Open() {
		t.Error("Identity without secret should be open")
	}
	if (Identity{Name: "home", Secret: "pw"}).Open() {
		t.Error("Identity with secret should not be open")
	}
}
