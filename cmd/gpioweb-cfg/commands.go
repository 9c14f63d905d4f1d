package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/seancottonau/gpioweb/internal/deviceapi"
	"github.com/seancottonau/gpioweb/internal/discovery"
)

// Command flags
var (
	deviceIP     string
	devicePort   int
	scanTimeout  int
	outputFormat string
	joinSecret   string
	joinTimeout  int
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceIP, "device", "", "Device IP address (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", 80, "Device HTTP port")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(networksCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(monitorCmd)
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for gpioweb devices on the network",
	Long: `Scan for gpioweb devices using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from connected gpioweb devices
and displays all discovered devices with their addresses and metadata.

Note that a device in portal mode does not announce itself; connect to
its setup access point and use 'gpioweb-cfg join' instead.`,
	Example: `  # Scan for 10 seconds (default)
  gpioweb-cfg scan

  # Quick 3-second scan
  gpioweb-cfg scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for gpioweb devices (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(cmd.Context(), time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the device is powered on and connected to this network")
		fmt.Println("  - A device in setup mode broadcasts its own access point instead")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --device flag to specify the IP manually")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Instance)
		fmt.Printf("   IP: %s:%d\n", device.IP, device.Port)
		if v := device.Metadata["version"]; v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}

	fmt.Println("Use 'gpioweb-cfg status --device <ip>' to query a device")
	fmt.Println("Use 'gpioweb-cfg monitor' for a live pin dashboard")

	return nil
}

// statusCmd shows a device's mode and pin snapshot
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device mode and pin state",
	Long: `Display a device's connectivity mode and a one-shot snapshot of its
configured pin levels.`,
	Example: `  # Status with auto-discovery
  gpioweb-cfg status

  # Status for a specific device
  gpioweb-cfg status --device 192.168.1.23

  # JSON output for scripting
  gpioweb-cfg status --device 192.168.1.23 --format json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := getClient(cmd.Context())
	if err != nil {
		return err
	}

	mode, err := client.Mode(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to query device: %w", err)
	}
	pins, err := client.Pins(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read pins: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(map[string]any{"mode": mode, "pins": pins}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Mode: %s", mode.Mode)
	if mode.Addr != "" {
		fmt.Printf(" (%s)", mode.Addr)
	}
	fmt.Println()
	fmt.Println()
	for _, pin := range pins {
		if pin.Error != "" {
			fmt.Printf("  %-12s %-8s error: %s\n", pin.Label, pin.Name, pin.Error)
			continue
		}
		fmt.Printf("  %-12s %-8s %s\n", pin.Label, pin.Name, pin.Level)
	}

	return nil
}

// networksCmd lists networks visible to the device
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List networks visible to the device",
	Long: `Ask the device's radio which networks it can currently see,
strongest signal first. Useful before 'gpioweb-cfg join'.`,
	Example: `  gpioweb-cfg networks --device 10.42.0.1`,
	RunE:    runNetworks,
}

func runNetworks(cmd *cobra.Command, args []string) error {
	client, err := getClient(cmd.Context())
	if err != nil {
		return err
	}

	networks, err := client.Networks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to scan: %w", err)
	}

	if len(networks) == 0 {
		fmt.Println("No networks visible.")
		return nil
	}

	for _, n := range networks {
		security := "secured"
		if n.Open {
			security = "open"
		}
		fmt.Printf("  %3d%%  %-32s %s\n", n.Signal, n.SSID, security)
	}
	return nil
}

// joinCmd hands the device a network credential
var joinCmd = &cobra.Command{
	Use:   "join <ssid>",
	Short: "Hand the device a network credential",
	Long: `Submit a network credential to a device and wait for the outcome.

The passphrase is prompted for interactively unless --passphrase is given.
Pass an empty passphrase (just press enter) for open networks.

When the device is in setup mode, joining a network tears down the setup
access point, so this command may lose contact with the device mid-attempt.
That usually means the device connected and moved to the new network; use
'gpioweb-cfg scan' on that network to find it again.`,
	Example: `  # Join while connected to the device's setup access point
  gpioweb-cfg join "Home WiFi" --device 10.42.0.1

  # Non-interactive (the passphrase ends up in shell history)
  gpioweb-cfg join "Home WiFi" --device 10.42.0.1 --passphrase hunter22`,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&joinSecret, "passphrase", "", "Network passphrase (prompted if not given)")
	joinCmd.Flags().IntVar(&joinTimeout, "timeout", 60, "Seconds to wait for the outcome")
}

func runJoin(cmd *cobra.Command, args []string) error {
	ssid := args[0]

	client, err := getClient(cmd.Context())
	if err != nil {
		return err
	}

	secret := joinSecret
	if !cmd.Flags().Changed("passphrase") {
		secret, err = promptSecret(fmt.Sprintf("Passphrase for %q (empty for open networks): ", ssid))
		if err != nil {
			return err
		}
	}

	ticket, err := client.Submit(cmd.Context(), ssid, secret)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	fmt.Printf("Credential submitted, waiting for the device to try %q...\n", ssid)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(joinTimeout)*time.Second)
	defer cancel()

	status, err := client.AwaitTicket(ctx, ticket)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("no outcome after %ds", joinTimeout)
		}
		// Losing the device mid-poll usually means the setup access point
		// went away because the attempt succeeded
		fmt.Println("Lost contact with the device while it switched networks.")
		fmt.Println("This usually means it connected. Run 'gpioweb-cfg scan' on the target network to confirm.")
		return nil
	}

	if status.Succeeded() {
		fmt.Println("✓ Device connected.")
		if !status.Persisted {
			fmt.Println("Warning: the device could not save the credential; it will not survive a reboot.")
		}
		return nil
	}
	return fmt.Errorf("device reported: %s", status.Message)
}

// forgetCmd erases the device's stored credential
var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Erase the device's stored credential",
	Long: `Erase the device's stored network credential and force it back into
setup mode. The device drops off its current network immediately and
raises its setup access point.`,
	Example: `  gpioweb-cfg forget --device 192.168.1.23`,
	RunE:    runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	client, err := getClient(cmd.Context())
	if err != nil {
		return err
	}

	if err := client.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println("✓ Credential erased; the device is returning to setup mode.")
	return nil
}

// getClient resolves a device (via flag or discovery) and returns a client.
func getClient(ctx context.Context) (*deviceapi.Client, error) {
	if deviceIP != "" {
		return deviceapi.NewClient(deviceIP, devicePort), nil
	}

	fmt.Println("No device IP specified, attempting auto-discovery...")
	devices, err := discovery.ScanForDevices(ctx, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices found. Use --device to specify the IP manually")
	}
	if len(devices) > 1 {
		fmt.Printf("Found %d devices:\n", len(devices))
		for i, device := range devices {
			fmt.Printf("%d. %s (%s)\n", i+1, device.Instance, device.IP)
		}
		return nil, fmt.Errorf("multiple devices found. Use --device to specify which one")
	}

	device := devices[0]
	fmt.Printf("Found device: %s (%s)\n\n", device.Instance, device.IP)
	return deviceapi.NewClient(device.IP, device.Port), nil
}

// promptSecret reads a passphrase without echoing it. A non-terminal stdin
// (a pipe in a script) falls back to a plain line read.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(secret), nil
	}

	// An empty line (or EOF) is a valid answer for open networks
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line), nil
}
