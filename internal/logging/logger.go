package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging defaults to info level.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "GPIOWEB_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks the GPIOWEB_LOG_LEVEL environment variable.
// If neither is set, info level is used: a headless device should always
// leave a trace of its connectivity decisions.
func Initialize(level string) error {
	// If no level provided, check environment variable
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info", "":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	// Customize encoder for better readability
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the GPIOWEB_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// Silence replaces the global logger with a no-op logger.
// CLI commands use this so that command output stays clean.
func Silence() {
	logger = zap.NewNop()
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogModeChange logs a connectivity mode transition
func LogModeChange(from string, to string, reason string) {
	Info("Connectivity mode changed",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("reason", reason),
	)
}

// LogAttempt logs the outcome of a station connection attempt
func LogAttempt(ssid string, outcome string, elapsed time.Duration) {
	Info("Station connection attempt finished",
		zap.String("ssid", ssid),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	)
}

// LogDNSQuery logs a captive resolver query at debug level.
// These arrive at high frequency while the portal is active, so they are
// kept out of the info stream.
func LogDNSQuery(remoteAddr string, qname string, qtype string) {
	Debug("Captive DNS query",
		zap.String("remote_addr", remoteAddr),
		zap.String("qname", qname),
		zap.String("qtype", qtype),
	)
}

// LogHTTPRequest logs an HTTP request
func LogHTTPRequest(remoteAddr string, method string, path string) {
	Debug("HTTP request received",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
