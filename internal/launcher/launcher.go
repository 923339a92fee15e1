// Package launcher runs user commands without ever blocking the manager
// and holds the command bar's line editor.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

// DefaultShell runs launch commands.
const DefaultShell = "/bin/sh"

// Launcher starts shell commands fire-and-forget.
type Launcher struct {
	shell string
	log   zerolog.Logger
}

// New creates a launcher using DefaultShell.
func New(log zerolog.Logger) *Launcher {
	return &Launcher{shell: DefaultShell, log: log}
}

// WithShell returns a copy of l that runs commands through shell.
func (l *Launcher) WithShell(shell string) *Launcher {
	out := *l
	out.shell = shell
	return &out
}

// Spawn starts command in its own session and returns once the process
// exists. A reaper goroutine collects the exit status for the log; the
// caller never waits for it.
func (l *Launcher) Spawn(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command(l.shell, "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %q: %w", command, err)
	}

	pid := cmd.Process.Pid
	l.log.Info().Str("command", command).Int("pid", pid).Msg("launched")
	go func() {
		if err := cmd.Wait(); err != nil {
			l.log.Debug().Err(err).Str("command", command).Int("pid", pid).Msg("launched command exited")
		}
	}()
	return nil
}
