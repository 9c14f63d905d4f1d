package wifi

import (
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/seancottonau/gpioweb/internal/logging"
)

// Runner executes an external command and returns its combined output.
// The production implementation shells out; tests substitute a scripted fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command, honouring context cancellation, and returns
// trimmed combined stdout/stderr. nmcli writes its diagnostics to both
// streams depending on the subcommand, so they are captured together.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	output := strings.TrimSpace(string(out))

	logging.Debug("Command executed",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.String("output", output),
		zap.Error(err),
	)

	return output, err
}
