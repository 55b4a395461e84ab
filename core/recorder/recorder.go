// Package recorder runs the wrapped program on a pseudo-terminal and tees
// everything it writes to a session log. The child's stdio is a real
// terminal, so interactive behavior (readline, color, cursor control) is
// identical to a direct invocation.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Options configure one recording. Stdin and Stdout default to the real
// terminal; tests inject buffers and leave Interactive off.
type Options struct {
	Command string
	Args    []string
	LogPath string

	Stdin  io.Reader
	Stdout io.Writer

	// Interactive enables raw mode on the real terminal and resize
	// forwarding to the child. Set it when stdin is a terminal.
	Interactive bool
}

// Result reports how the session ran.
type Result struct {
	ExitCode      int
	BytesCaptured int64
	StartedAt     time.Time
	Duration      time.Duration
}

// Run spawns the command attached to a fresh PTY and relays I/O until the
// child exits. Every chunk read from the child is written to the real
// terminal and appended to the log before the next read, so a crash
// mid-session loses nothing already produced. Spawn failure leaves no
// empty log file behind.
func Run(opts Options) (Result, error) {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	startedAt := time.Now()

	logFile, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return Result{}, fmt.Errorf("open session log: %w", err)
	}

	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		_ = logFile.Close()
		removeIfEmpty(opts.LogPath)
		return Result{}, fmt.Errorf("spawn %s: %w", opts.Command, err)
	}

	if opts.Interactive {
		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		go func() {
			for range winch {
				_ = pty.InheritSize(os.Stdin, ptmx)
			}
		}()
		winch <- syscall.SIGWINCH
		defer func() { signal.Stop(winch); close(winch) }()

		if oldState, rawErr := term.MakeRaw(int(os.Stdin.Fd())); rawErr == nil {
			defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()
		}
	}

	// If the wrapper itself is told to stop, take the child's process
	// group down with it rather than orphaning an interactive program.
	terminate := make(chan os.Signal, 1)
	signal.Notify(terminate, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for range terminate {
			if cmd.Process != nil {
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
			}
			_ = ptmx.Close()
		}
	}()
	defer func() { signal.Stop(terminate); close(terminate) }()

	// Keystrokes flow to the child; its echo comes back on the output
	// path, so input needs no separate logging.
	go func() {
		_, _ = io.Copy(ptmx, stdin)
	}()

	var captured int64
	buf := make([]byte, 4096)
	for {
		n, readErr := ptmx.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			_, _ = stdout.Write(chunk)
			if written, writeErr := logFile.Write(chunk); writeErr == nil {
				captured += int64(written)
			}
		}
		if readErr != nil {
			// EOF, or EIO once the child side closes.
			break
		}
	}

	waitErr := cmd.Wait()
	_ = ptmx.Close()
	_ = logFile.Sync()
	_ = logFile.Close()

	result := Result{
		BytesCaptured: captured,
		StartedAt:     startedAt,
		Duration:      time.Since(startedAt),
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, fmt.Errorf("wait for %s: %w", opts.Command, waitErr)
		}
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			// Killed by signal; report failure rather than a raw -1.
			result.ExitCode = 1
		}
	}
	return result, nil
}

func removeIfEmpty(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > 0 {
		return
	}
	_ = os.Remove(path)
}
