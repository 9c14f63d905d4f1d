package manager

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/credstore"
	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/wifi"
)

const (
	// DefaultConnectDeadline bounds one station connection attempt
	DefaultConnectDeadline = 10 * time.Second

	// DefaultLinkCheckInterval is how often the station link is probed
	// while connected
	DefaultLinkCheckInterval = 5 * time.Second

	// DefaultTicketRetention is how long resolved tickets stay pollable
	DefaultTicketRetention = 5 * time.Minute

	// commandBacklog bounds queued control-surface commands. The run loop
	// may be busy for a whole connect deadline, so submissions queue; past
	// the backlog they fail fast instead of blocking the HTTP layer.
	commandBacklog = 8
)

// Resolver is the captive name resolver as the manager sees it.
type Resolver interface {
	Bind(addr netip.Addr) error
	Stop()
}

// Announcer advertises the device's presence while it is connected to a
// network. Optional.
type Announcer interface {
	Start(addr netip.Addr) error
	Stop()
}

// Options wires the manager's collaborators and tunables.
type Options struct {
	Station     wifi.Station
	Broadcaster wifi.Broadcaster
	Resolver    Resolver
	Store       credstore.Store

	// Announcer is optional; nil disables presence announcements
	Announcer Announcer

	// APSSID and APPassphrase configure the portal's broadcast network
	APSSID       string
	APPassphrase string

	// ConnectDeadline bounds one station attempt
	ConnectDeadline time.Duration

	// LinkCheckInterval is how often the link is probed while connected
	LinkCheckInterval time.Duration

	// TicketRetention is how long resolved tickets stay pollable
	TicketRetention time.Duration
}

// Manager is the connectivity lifecycle state machine. Create with New,
// drive with Run, and query through CurrentMode, Submit, Poll and Reset.
type Manager struct {
	opts Options

	commands chan any

	mu        sync.RWMutex
	mode      Mode
	addr      netip.Addr
	tickets   map[Ticket]*ticketRecord
	ticketSeq uint64

	// identity is the most recently known identity. Touched only by the
	// run-loop goroutine.
	identity wifi.Identity
}

// submitCmd asks the run loop to attempt a freshly submitted identity.
type submitCmd struct {
	id     wifi.Identity
	ticket Ticket
}

// resetCmd asks the run loop to erase the credential and force portal mode.
type resetCmd struct {
	reply chan error
}

// New creates a manager. Run must be called for it to make progress.
func New(opts Options) *Manager {
	if opts.ConnectDeadline <= 0 {
		opts.ConnectDeadline = DefaultConnectDeadline
	}
	if opts.LinkCheckInterval <= 0 {
		opts.LinkCheckInterval = DefaultLinkCheckInterval
	}
	if opts.TicketRetention <= 0 {
		opts.TicketRetention = DefaultTicketRetention
	}

	return &Manager{
		opts:     opts,
		commands: make(chan any, commandBacklog),
		mode:     ModeUninitialized,
		tickets:  make(map[Ticket]*ticketRecord),
	}
}

// CurrentMode returns the active connectivity mode.
func (m *Manager) CurrentMode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// LocalAddr returns the device's current address: the leased station address
// when connected, the portal address in portal mode, and the zero Addr
// otherwise.
func (m *Manager) LocalAddr() netip.Addr {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.addr
}

// Submit hands a user-submitted identity to the state machine and returns a
// Ticket immediately. An identity with an empty name resolves to Failure
// without the radio ever being touched.
func (m *Manager) Submit(id wifi.Identity) Ticket {
	ticket := m.newTicket()

	if err := id.Validate(); err != nil {
		m.resolveTicket(ticket, TicketStatus{State: TicketFailure, Message: err.Error()})
		return ticket
	}

	select {
	case m.commands <- submitCmd{id: id, ticket: ticket}:
	default:
		m.resolveTicket(ticket, TicketStatus{State: TicketFailure, Message: "device is busy, try again shortly"})
	}
	return ticket
}

// Poll returns the status of a previously issued ticket. ok is false for
// unknown (or long-since pruned) tickets.
func (m *Manager) Poll(ticket Ticket) (status TicketStatus, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tickets[ticket]
	if !ok {
		return TicketStatus{}, false
	}
	return rec.status, true
}

// Reset erases the stored credential and forces the device into portal mode.
// The returned error reports a failed erase; the transition happens
// regardless, since a reset is the operator's last resort.
func (m *Manager) Reset(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case m.commands <- resetCmd{reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the state machine until ctx is cancelled. It returns a
// non-nil error only when the device cannot enter portal mode — the one
// condition with no further fallback.
func (m *Manager) Run(ctx context.Context) error {
	defer m.teardown()

	// Boot: a stored credential goes straight to a connection attempt,
	// its absence goes straight to the portal
	if id, ok := m.opts.Store.Load(); ok {
		m.identity = id
		if err := m.attempt(ctx, id, ""); err != nil {
			return err
		}
	} else {
		if err := m.enterPortal(ctx, "no stored credential"); err != nil {
			return err
		}
	}

	linkTicker := time.NewTicker(m.opts.LinkCheckInterval)
	defer linkTicker.Stop()
	pruneTicker := time.NewTicker(time.Minute)
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case raw := <-m.commands:
			switch cmd := raw.(type) {
			case submitCmd:
				m.identity = cmd.id
				if err := m.attempt(ctx, cmd.id, cmd.ticket); err != nil {
					return err
				}
			case resetCmd:
				clearErr := m.opts.Store.Clear()
				if clearErr != nil {
					logging.Error("Failed to erase stored credential", zap.Error(clearErr))
				}
				if err := m.enterPortal(ctx, "reset requested"); err != nil {
					cmd.reply <- err
					return err
				}
				cmd.reply <- clearErr
			}

		case <-linkTicker.C:
			if m.CurrentMode() != ModeConnected {
				continue
			}
			if m.opts.Station.LinkUp(ctx) {
				continue
			}
			logging.Warn("Station link lost, reconnecting",
				zap.String("ssid", m.identity.Name),
			)
			if err := m.attempt(ctx, m.identity, ""); err != nil {
				return err
			}

		case <-pruneTicker.C:
			m.pruneTickets()
		}
	}
}

// attempt runs one bounded station connection attempt and performs the
// resulting transition. The returned error is non-nil only when a required
// fallback to portal mode failed.
func (m *Manager) attempt(ctx context.Context, id wifi.Identity, ticket Ticket) error {
	// A station attempt needs the interface to itself
	m.stopAnnouncer()
	m.closePortalSession(ctx)
	m.setMode(ModeConnecting, netip.Addr{}, "attempting "+id.Name)

	outcome := m.opts.Station.Attempt(ctx, id, m.opts.ConnectDeadline)

	if outcome.Result != wifi.ResultConnected {
		m.resolveTicket(ticket, TicketStatus{
			State:   TicketFailure,
			Message: "connection attempt " + outcome.Result.String(),
		})
		return m.enterPortal(ctx, "attempt "+outcome.Result.String())
	}

	m.setMode(ModeConnected, outcome.Addr, "attempt connected")

	// Persist the now proven-working identity. Boot-time loads and fresh
	// submissions converge on the same durable state here.
	persisted := true
	if err := m.opts.Store.Save(id); err != nil {
		persisted = false
		logging.Error("Failed to persist credential; it will not survive a reboot", zap.Error(err))
	}
	m.resolveTicket(ticket, TicketStatus{State: TicketSuccess, Persisted: persisted})

	if m.opts.Announcer != nil {
		if err := m.opts.Announcer.Start(outcome.Addr); err != nil {
			logging.Warn("Failed to announce device presence", zap.Error(err))
		}
	}
	return nil
}

// enterPortal stands up the portal session: any previous session is stopped
// first, then the access point starts and the captive resolver binds to its
// address. A failure here is fatal to the caller.
func (m *Manager) enterPortal(ctx context.Context, reason string) error {
	m.stopAnnouncer()
	m.closePortalSession(ctx)

	addr, err := m.opts.Broadcaster.Start(ctx, m.opts.APSSID, m.opts.APPassphrase)
	if err != nil {
		return fmt.Errorf("cannot enter portal mode: %w", err)
	}

	if err := m.opts.Resolver.Bind(addr); err != nil {
		m.opts.Broadcaster.Stop(ctx)
		return fmt.Errorf("cannot enter portal mode: %w", err)
	}

	m.setMode(ModePortalActive, addr, reason)
	return nil
}

// closePortalSession releases the portal session's resources. Safe to call
// in any mode; both collaborators are idempotent.
func (m *Manager) closePortalSession(ctx context.Context) {
	m.opts.Resolver.Stop()
	m.opts.Broadcaster.Stop(ctx)
}

func (m *Manager) stopAnnouncer() {
	if m.opts.Announcer != nil {
		m.opts.Announcer.Stop()
	}
}

func (m *Manager) teardown() {
	m.stopAnnouncer()
	m.closePortalSession(context.Background())
}

func (m *Manager) setMode(to Mode, addr netip.Addr, reason string) {
	m.mu.Lock()
	from := m.mode
	m.mode = to
	m.addr = addr
	m.mu.Unlock()

	logging.LogModeChange(from.String(), to.String(), reason)
}

func (m *Manager) newTicket() Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticketSeq++
	ticket := Ticket(fmt.Sprintf("t-%d-%d", time.Now().UnixNano(), m.ticketSeq))
	m.tickets[ticket] = &ticketRecord{status: TicketStatus{State: TicketPending}}
	return ticket
}

// resolveTicket records a ticket's final status. The empty ticket (used for
// boot-time and reconnect attempts, which nobody polls) is ignored.
func (m *Manager) resolveTicket(ticket Ticket, status TicketStatus) {
	if ticket == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tickets[ticket]
	if !ok {
		return
	}
	rec.status = status
	rec.resolvedAt = time.Now()
}

// pruneTickets drops resolved tickets past the retention window.
func (m *Manager) pruneTickets() {
	cutoff := time.Now().Add(-m.opts.TicketRetention)

	m.mu.Lock()
	defer m.mu.Unlock()

	for ticket, rec := range m.tickets {
		if !rec.resolvedAt.IsZero() && rec.resolvedAt.Before(cutoff) {
			delete(m.tickets, ticket)
		}
	}
}
