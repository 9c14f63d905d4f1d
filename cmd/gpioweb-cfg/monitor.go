package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/seancottonau/gpioweb/internal/deviceapi"
)

// Refresh cadence for the live dashboard
const monitorRefresh = 1 * time.Second

// monitorCmd launches the live pin dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live pin dashboard",
	Long: `Watch a device's pin levels update live in the terminal.

The dashboard polls the device once per second and shows each configured
pin with its current level, plus the device's connectivity mode.`,
	Example: `  # Monitor with auto-discovery
  gpioweb-cfg monitor
  # Or simply (monitor is default):
  gpioweb-cfg

  # Monitor a specific device
  gpioweb-cfg monitor --device 192.168.1.23`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	client, err := getClient(cmd.Context())
	if err != nil {
		return err
	}

	p := tea.NewProgram(newMonitorModel(client))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor error: %w", err)
	}
	return nil
}

// Dashboard styles
var (
	monitorTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#43BF6D")).
				Bold(true).
				MarginBottom(1)

	monitorLabelStyle = lipgloss.NewStyle().
				Width(16).
				Foreground(lipgloss.Color("#626262"))

	monitorHighStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#43BF6D")).
				Bold(true)

	monitorLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	monitorErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))
)

// monitorKeys are the dashboard's key bindings
type monitorKeys struct {
	Refresh key.Binding
	Quit    key.Binding
}

func (k monitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

func (k monitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}}
}

var defaultMonitorKeys = monitorKeys{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Messages produced by the poll loop
type (
	snapshotMsg struct {
		mode deviceapi.Mode
		pins []deviceapi.PinReading
	}
	snapshotErrMsg struct{ err error }
	refreshMsg     struct{}
)

// monitorModel is the bubbletea model for the live dashboard.
type monitorModel struct {
	client *deviceapi.Client

	mode    deviceapi.Mode
	pins    []deviceapi.PinReading
	lastErr error
	loaded  bool

	spinner spinner.Model
	keys    monitorKeys
	help    help.Model
}

func newMonitorModel(client *deviceapi.Client) monitorModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return monitorModel{
		client:  client,
		spinner: s,
		keys:    defaultMonitorKeys,
		help:    help.New(),
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchSnapshot)
}

// fetchSnapshot polls the device once.
func (m monitorModel) fetchSnapshot() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), monitorRefresh*3)
	defer cancel()

	mode, err := m.client.Mode(ctx)
	if err != nil {
		return snapshotErrMsg{err: err}
	}
	pins, err := m.client.Pins(ctx)
	if err != nil {
		return snapshotErrMsg{err: err}
	}
	return snapshotMsg{mode: mode, pins: pins}
}

// scheduleRefresh triggers the next poll after the refresh interval.
func scheduleRefresh() tea.Cmd {
	return tea.Tick(monitorRefresh, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchSnapshot
		}
		return m, nil

	case snapshotMsg:
		m.mode = msg.mode
		m.pins = msg.pins
		m.lastErr = nil
		m.loaded = true
		return m, scheduleRefresh()

	case snapshotErrMsg:
		// Keep the last good snapshot on screen; just flag the error
		m.lastErr = msg.err
		return m, scheduleRefresh()

	case refreshMsg:
		return m, m.fetchSnapshot

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(monitorTitleStyle.Render("gpioweb " + m.client.BaseURL))
	b.WriteString("\n")

	if !m.loaded {
		b.WriteString(m.spinner.View())
		b.WriteString(" contacting device...\n")
		return b.String()
	}

	modeLine := "mode: " + m.mode.Mode
	if m.mode.Addr != "" {
		modeLine += " (" + m.mode.Addr + ")"
	}
	b.WriteString(monitorLowStyle.Render(modeLine))
	b.WriteString("\n\n")

	for _, pin := range m.pins {
		b.WriteString(monitorLabelStyle.Render(pin.Label))
		switch {
		case pin.Error != "":
			b.WriteString(monitorErrStyle.Render("error: " + pin.Error))
		case pin.Level == "high":
			b.WriteString(monitorHighStyle.Render("● high"))
		default:
			b.WriteString(monitorLowStyle.Render("○ low"))
		}
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(monitorErrStyle.Render("device unreachable, retrying..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
