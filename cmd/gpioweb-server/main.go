// Gpioweb-server is the on-device daemon that keeps a headless GPIO sensor
// board reachable over the network.
//
// On boot the daemon tries the stored Wi-Fi credential; when there is none,
// or the network is gone, it raises its own setup access point with a
// captive portal so a phone can hand over a new credential. In both modes
// it serves pin readings over HTTP and WebSocket.
//
// Usage:
//
//	gpioweb-server serve [flags]
//
// See 'gpioweb-server serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/announce"
	"github.com/seancottonau/gpioweb/internal/captivedns"
	"github.com/seancottonau/gpioweb/internal/config"
	"github.com/seancottonau/gpioweb/internal/credstore"
	"github.com/seancottonau/gpioweb/internal/gpio"
	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/manager"
	"github.com/seancottonau/gpioweb/internal/portal"
	"github.com/seancottonau/gpioweb/internal/version"
	"github.com/seancottonau/gpioweb/internal/wifi"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gpioweb-server",
	Short: "GPIO web device daemon",
	Long: `The on-device daemon for gpioweb sensor boards.

It owns the device's connectivity lifecycle: joining the configured
wireless network, falling back to a captive setup portal when that fails,
and serving GPIO pin readings over HTTP either way.

Note: For talking to a running device from your workstation, use the
separate 'gpioweb-cfg' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	configPath string
	logLevel   string
	noHardware bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the device daemon",
	Long: `Run the gpioweb daemon until interrupted.

The daemon reads its configuration from a YAML file (missing file means
built-in defaults), then starts the connectivity state machine and the
HTTP control surface. Managing the radio requires NetworkManager's nmcli
on PATH and usually root.

With --no-hardware the GPIO layer is replaced by an in-memory fake, which
lets the daemon run on a development machine without pin hardware.`,
	Example: `  # Run with the default configuration path
  gpioweb-server serve

  # Run with a custom configuration and verbose logging
  gpioweb-server serve --config ./gpioweb.yaml --log-level debug

  # Develop on a laptop without GPIO hardware
  gpioweb-server serve --no-hardware`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to configuration file")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides GPIOWEB_LOG_LEVEL")
	serveCmd.Flags().BoolVar(&noHardware, "no-hardware", false, "Use an in-memory GPIO fake instead of real pins")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Info("Starting gpioweb daemon",
		zap.String("version", version.Full()),
		zap.String("config", configPath),
		zap.String("interface", cfg.Interface),
		zap.Int("http_port", cfg.HTTPPort),
	)

	reader, err := newReader()
	if err != nil {
		return fmt.Errorf("failed to open GPIO: %w", err)
	}
	defer func() { _ = reader.Close() }()

	mgr := manager.New(manager.Options{
		Station:         wifi.NewStation(cfg.Interface),
		Broadcaster:     wifi.NewBroadcaster(cfg.Interface),
		Resolver:        captivedns.New(),
		Store:           credstore.NewFileStore(cfg.CredentialPath),
		Announcer:       announce.New("", cfg.HTTPPort),
		APSSID:          cfg.AccessPoint.SSID,
		APPassphrase:    cfg.AccessPoint.Passphrase,
		ConnectDeadline: cfg.ConnectDeadline(),
	})

	srv := portal.New(portal.Options{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Control: mgr,
		Reader:  reader,
		Scanner: wifi.NewScanner(cfg.Interface),
		Pins:    cfg.Pins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Either half failing takes the whole daemon down: a device with a dead
	// control surface or a dead state machine is unreachable anyway
	errChan := make(chan error, 2)
	go func() {
		errChan <- mgr.Run(ctx)
	}()
	go func() {
		errChan <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping daemon...")
		stop()
		// Let both halves wind down before returning
		<-errChan
		<-errChan
		return nil
	case err := <-errChan:
		stop()
		<-errChan
		if err != nil {
			return fmt.Errorf("daemon stopped: %w", err)
		}
		return nil
	}
}

// newReader opens the GPIO layer, honouring --no-hardware.
func newReader() (gpio.Reader, error) {
	if noHardware {
		logging.Warn("GPIO hardware disabled; all pins read low")
		return gpio.NewFake(), nil
	}
	return gpio.NewPeriphReader()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gpioweb-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
