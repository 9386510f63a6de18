package ansible

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/t0ffel/playbook2image/utils"
)

// ProcessExecutor runs the assembled command as a child process with
// inherited stdio, the way the launcher hands control to ansible-playbook.
// A non-zero exit status comes back as *utils.ExitError so the launcher
// can propagate it unchanged.
type ProcessExecutor struct {
	// Dir is the working directory for the invocation; empty means the
	// current directory.
	Dir string
	// Stdout and Stderr default to the process streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

func (e *ProcessExecutor) Execute(command []string) error {
	if len(command) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &utils.ExitError{Step: command[0], Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("running %s: %w", command[0], err)
}
