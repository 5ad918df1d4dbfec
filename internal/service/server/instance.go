package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ps "github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another daemon process is found.
var ErrAlreadyRunning = errors.New("another alarm-server is already running")

// ensureSingleInstance fails when another process runs the same executable.
func ensureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("detect executable: %w", err)
	}

	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if pid, found := findOtherInstance(processList, os.Getpid(), filepath.Base(executable)); found {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	return nil
}

// findOtherInstance returns the pid of a process other than self named executable.
func findOtherInstance(processList []ps.Process, self int, executable string) (int, bool) {
	for _, process := range processList {
		processID := process.Pid()
		if processID == self {
			continue
		}

		if process.Executable() == executable {
			return processID, true
		}
	}

	return 0, false
}
