package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seancottonau/gpioweb/internal/credstore"
	"github.com/seancottonau/gpioweb/internal/wifi"
)

// DefaultPath is where the daemon looks for its configuration file.
const DefaultPath = "/etc/gpioweb/config.yaml"

const (
	defaultInterface       = "wlan0"
	defaultHTTPPort        = 80
	defaultConnectDeadline = 10 // seconds
	defaultAPSSID          = "gpioweb-setup"
	defaultAPPassphrase    = "gpiosetup"

	// maxConnectDeadline caps the connect deadline. During an attempt the
	// portal is down, so an absurdly long deadline would leave the device
	// unreachable for that long after every failed boot.
	maxConnectDeadline = 120 // seconds
)

// Pin describes one exposed digital input.
type Pin struct {
	// Label is the human-readable name shown in the web UI (e.g. "Door")
	Label string `yaml:"label"`

	// Name is the periph.io pin name (e.g. "GPIO4")
	Name string `yaml:"name"`
}

// AccessPoint holds the portal's broadcast network settings. These are
// installation constants: they cannot change at runtime.
type AccessPoint struct {
	SSID       string `yaml:"ssid"`
	Passphrase string `yaml:"passphrase"`
}

// Config is the device configuration.
type Config struct {
	// Interface is the wireless interface the daemon drives
	Interface string `yaml:"interface"`

	// HTTPPort is the port the control surface listens on
	HTTPPort int `yaml:"http_port"`

	// CredentialPath is where the stored network credential lives
	CredentialPath string `yaml:"credential_path"`

	// ConnectDeadlineSeconds bounds one station connection attempt
	ConnectDeadlineSeconds int `yaml:"connect_deadline_seconds"`

	// AccessPoint configures the configuration portal's own network
	AccessPoint AccessPoint `yaml:"access_point"`

	// Pins lists the digital inputs exposed over HTTP
	Pins []Pin `yaml:"pins"`
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Interface:              defaultInterface,
		HTTPPort:               defaultHTTPPort,
		CredentialPath:         credstore.DefaultPath,
		ConnectDeadlineSeconds: defaultConnectDeadline,
		AccessPoint: AccessPoint{
			SSID:       defaultAPSSID,
			Passphrase: defaultAPPassphrase,
		},
		Pins: []Pin{
			{Label: "Input 1", Name: "GPIO4"},
			{Label: "Input 2", Name: "GPIO17"},
		},
	}
}

// Load reads the configuration file at path (DefaultPath when empty).
// A missing file yields the default configuration; any present file must
// validate.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for installation mistakes.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return fmt.Errorf("interface must not be empty")
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d out of range", c.HTTPPort)
	}
	if c.ConnectDeadlineSeconds < 1 || c.ConnectDeadlineSeconds > maxConnectDeadline {
		return fmt.Errorf("connect_deadline_seconds %d out of range (1-%d)", c.ConnectDeadlineSeconds, maxConnectDeadline)
	}
	if c.AccessPoint.SSID == "" {
		return fmt.Errorf("access_point.ssid must not be empty")
	}
	if len(c.AccessPoint.SSID) > wifi.MaxNameLen {
		return fmt.Errorf("access_point.ssid exceeds %d bytes", wifi.MaxNameLen)
	}
	// The portal AP is WPA2; reject weak passphrases here, at configuration
	// time, rather than at the moment the device needs its fallback
	if len(c.AccessPoint.Passphrase) < wifi.MinPassphraseLen {
		return fmt.Errorf("access_point.passphrase must be at least %d characters", wifi.MinPassphraseLen)
	}
	if len(c.Pins) == 0 {
		return fmt.Errorf("at least one pin must be configured")
	}
	seen := make(map[string]bool)
	for i, pin := range c.Pins {
		if pin.Name == "" {
			return fmt.Errorf("pins[%d].name must not be empty", i)
		}
		if pin.Label == "" {
			return fmt.Errorf("pins[%d].label must not be empty", i)
		}
		if seen[pin.Name] {
			return fmt.Errorf("pin %s configured twice", pin.Name)
		}
		seen[pin.Name] = true
	}
	return nil
}

// ConnectDeadline returns the station attempt deadline as a duration.
func (c *Config) ConnectDeadline() time.Duration {
	return time.Duration(c.ConnectDeadlineSeconds) * time.Second
}
