package manager

import (
	"fmt"
	"time"
)

// Ticket is a handle for a pending identity submission. The control surface
// hands it back to the client, which polls the outcome without ever blocking
// on the connection attempt itself.
type Ticket string

// TicketState is the polled outcome of a submission.
type TicketState int

const (
	// TicketPending means the attempt has not finished yet
	TicketPending TicketState = iota
	// TicketSuccess means the submitted identity connected
	TicketSuccess
	// TicketFailure means the identity was invalid or the attempt failed
	TicketFailure
)

// String returns the wire name of the state as used by the HTTP API
func (s TicketState) String() string {
	switch s {
	case TicketPending:
		return "pending"
	case TicketSuccess:
		return "success"
	case TicketFailure:
		return "failure"
	default:
		return fmt.Sprintf("TicketState(%d)", s)
	}
}

// TicketStatus is the polled view of a submission.
type TicketStatus struct {
	State TicketState

	// Persisted is meaningful only on success: false means the identity
	// works for this session but could not be written durably, so it may
	// not survive a reboot.
	Persisted bool

	// Message carries a human-readable explanation on failure
	Message string
}

// ticketRecord is the manager's internal bookkeeping for one ticket.
type ticketRecord struct {
	status     TicketStatus
	resolvedAt time.Time // zero while pending
}
