package services

import (
	"context"
	"io"
	"os"
	"os/exec"
	"slices"
	"strconv"
)

// ProcessDispatcher runs the downloader as a child process attached to the given stdio
type ProcessDispatcher struct {
	Command string
	Args    []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewProcessDispatcher creates a dispatcher bound to the terminal's stdio
func NewProcessDispatcher(command string, args []string) *ProcessDispatcher {
	return &ProcessDispatcher{
		Command: command,
		Args:    args,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Dispatch runs `Command Args... -l listFile -w workers` and waits for it to exit
func (d *ProcessDispatcher) Dispatch(ctx context.Context, listFile string, workers int) error {
	args := append(slices.Clone(d.Args), "-l", listFile, "-w", strconv.Itoa(workers))

	cmd := exec.CommandContext(ctx, d.Command, args...)
	cmd.Stdin = d.Stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr
	return cmd.Run()
}
