package wifi

const (
	// MaxNameLen is the longest accepted network name, per the 802.11
	// SSID element limit.
	MaxNameLen = 32

	// MaxSecretLen is the longest accepted secret, per the WPA2
	// passphrase limit.
	MaxSecretLen = 64
)

// Identity is a network name/secret pair used for a station connection.
// Both fields are opaque byte strings; an empty Secret means an open network.
type Identity struct {
	Name   string `yaml:"name" json:"name"`
	Secret string `yaml:"secret" json:"secret"`
}

// Validate reports whether the identity may be used for a connection attempt.
// An identity with an empty name is never valid.
func (id Identity) Validate() error {
	if id.Name == "" {
		return NewValidationError("network name must not be empty")
	}
	if len(id.Name) > MaxNameLen {
		return NewValidationError("network name exceeds 32 bytes")
	}
	if len(id.Secret) > MaxSecretLen {
		return NewValidationError("network secret exceeds 64 bytes")
	}
	return nil
}

// Open reports whether the identity targets an open (secretless) network.
func (id Identity) Open() bool {
	return id.Secret == ""
}
