package utils

import (
	"errors"
	"fmt"
	"os/exec"
)

// ExitError carries the exit status of a delegated external step so the
// process can propagate it unchanged.
type ExitError struct {
	Step string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Step, e.Code)
}

// ExitCode maps an error to a process exit status: nil is 0, an ExitError
// or *exec.ExitError keeps its code, anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var execErr *exec.ExitError
	if errors.As(err, &execErr) {
		return execErr.ExitCode()
	}
	return 1
}
