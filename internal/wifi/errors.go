package wifi

import (
	"errors"
	"fmt"
)

// Error types for radio operations

// ErrorKind represents the category of radio error that occurred
type ErrorKind int

const (
	// KindCommand indicates the underlying nmcli invocation failed
	KindCommand ErrorKind = iota
	// KindAccessPoint indicates the broadcast network could not be started
	KindAccessPoint
	// KindWeakPassphrase indicates the access-point passphrase is below the
	// WPA2 minimum of 8 characters
	KindWeakPassphrase
	// KindNoAddress indicates the interface came up without an IPv4 address
	KindNoAddress
	// KindValidation indicates an invalid identity or parameter
	KindValidation
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindCommand:
		return "Command Error"
	case KindAccessPoint:
		return "Access Point Error"
	case KindWeakPassphrase:
		return "Weak Passphrase"
	case KindNoAddress:
		return "No Address"
	case KindValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// RadioError represents a failure of the wireless layer. Unlike the routine
// attempt outcomes (TimedOut, Rejected), a RadioError means the radio itself
// could not do what was asked.
type RadioError struct {
	Kind    ErrorKind // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *RadioError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RadioError) Unwrap() error {
	return e.Err
}

// NewCommandError creates an error for a failed nmcli invocation
func NewCommandError(message string, err error) *RadioError {
	return &RadioError{Kind: KindCommand, Message: message, Err: err}
}

// NewAccessPointError creates an error for a failed access-point start
func NewAccessPointError(message string, err error) *RadioError {
	return &RadioError{Kind: KindAccessPoint, Message: message, Err: err}
}

// NewWeakPassphraseError creates an error for a too-short AP passphrase
func NewWeakPassphraseError(length int) *RadioError {
	return &RadioError{
		Kind:    KindWeakPassphrase,
		Message: fmt.Sprintf("passphrase is %d characters, WPA2 requires at least %d", length, MinPassphraseLen),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *RadioError {
	return &RadioError{Kind: KindValidation, Message: message}
}

// IsKind checks whether err is a RadioError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var re *RadioError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// IsWeakPassphrase checks if an error reports a too-short passphrase
func IsWeakPassphrase(err error) bool {
	return IsKind(err, KindWeakPassphrase)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsKind(err, KindValidation)
}
