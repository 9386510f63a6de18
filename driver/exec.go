package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/t0ffel/playbook2image/utils"
)

// CommandRunner runs an external command with inherited stdio. The driver
// uses it for the tools it treats as opaque: s2i, git and docker run.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	log.Info("running", "command", name+" "+strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &utils.ExitError{Step: name, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("running %s: %w", name, err)
}
