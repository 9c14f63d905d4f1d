package deviceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultPollInterval is how often AwaitTicket polls a pending ticket
	DefaultPollInterval = 1 * time.Second
)

// Mode reports a device's connectivity mode and address.
type Mode struct {
	Mode string `json:"mode"`
	Addr string `json:"addr,omitempty"`
}

// PinReading is one pin's state as reported by the device.
type PinReading struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Level string `json:"level"`
	Error string `json:"error,omitempty"`
}

// Network is one visible network as reported by the device.
type Network struct {
	SSID   string `json:"ssid"`
	Signal int    `json:"signal"`
	Open   bool   `json:"open"`
}

// TicketStatus is the state of a credential submission.
type TicketStatus struct {
	State     string `json:"state"`
	Persisted bool   `json:"persisted"`
	Message   string `json:"message,omitempty"`
}

// Pending reports whether the submission is still in flight.
func (t TicketStatus) Pending() bool { return t.State == "pending" }

// Succeeded reports whether the submission connected.
func (t TicketStatus) Succeeded() bool { return t.State == "success" }

// Client is an HTTP client for one gpioweb device.
type Client struct {
	// BaseURL is the device's base URL (e.g. "http://192.168.1.23")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// PollInterval is how often AwaitTicket polls a pending ticket
	PollInterval time.Duration
}

// NewClient creates a client for the device at ip:port.
func NewClient(ip string, port int) *Client {
	return &Client{
		BaseURL:      fmt.Sprintf("http://%s:%d", ip, port),
		HTTPClient:   &http.Client{Timeout: DefaultTimeout},
		PollInterval: DefaultPollInterval,
	}
}

// Mode fetches the device's current connectivity mode.
func (c *Client) Mode(ctx context.Context) (Mode, error) {
	var mode Mode
	err := c.getJSON(ctx, "/api/mode", &mode)
	return mode, err
}

// Pins fetches a snapshot of the device's configured pin levels.
func (c *Client) Pins(ctx context.Context) ([]PinReading, error) {
	var readings []PinReading
	err := c.getJSON(ctx, "/api/pins", &readings)
	return readings, err
}

// Networks fetches the networks the device can currently see.
func (c *Client) Networks(ctx context.Context) ([]Network, error) {
	var networks []Network
	err := c.getJSON(ctx, "/api/networks", &networks)
	return networks, err
}

// Submit sends a credential to the device and returns the issued ticket.
func (c *Client) Submit(ctx context.Context, name, secret string) (string, error) {
	body, err := json.Marshal(map[string]string{"name": name, "secret": secret})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/wifi", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("device unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", apiError(resp)
	}

	var sr struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	return sr.Ticket, nil
}

// Ticket fetches the status of a previously issued ticket.
func (c *Client) Ticket(ctx context.Context, ticket string) (TicketStatus, error) {
	var status TicketStatus
	err := c.getJSON(ctx, "/api/wifi/status?ticket="+ticket, &status)
	return status, err
}

// AwaitTicket polls a ticket until it resolves or ctx expires.
//
// A device that just connected to a new network drops the portal access
// point, so the poll often loses the device mid-flight. That is reported
// as an error; the caller decides whether to treat it as likely success.
func (c *Client) AwaitTicket(ctx context.Context, ticket string) (TicketStatus, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		status, err := c.Ticket(ctx, ticket)
		if err != nil {
			return TicketStatus{}, err
		}
		if !status.Pending() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return TicketStatus{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Reset asks the device to erase its credential and return to portal mode.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/reset", nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("device unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

// getJSON performs a GET and decodes the JSON response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("device unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError turns a non-success response into an error, preferring the
// device's own error message when the body carries one.
func apiError(resp *http.Response) error {
	var er struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		return fmt.Errorf("device returned %d: %s", resp.StatusCode, er.Error)
	}
	return fmt.Errorf("device returned %d", resp.StatusCode)
}
