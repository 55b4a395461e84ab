package summarize

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds one collaborator invocation. The collaborator is an
// out-of-process dependency and can hang; the interactive session is
// already over by the time it runs, so a hard stop is safe.
const DefaultTimeout = 5 * time.Minute

// CLI invokes the wrapped program itself in print mode to produce the
// report. This keeps the wrapper dependency-free at runtime: whatever
// binary the user already has does the summarization.
type CLI struct {
	// Executable is the resolved program path.
	Executable string
	// Model is passed through as --model when set.
	Model string
	// Timeout defaults to DefaultTimeout when zero.
	Timeout time.Duration
}

// Summarize runs `<executable> -p <prompt> --system-prompt <system>` and
// returns its stdout. A non-zero exit surfaces the process's stderr text.
func (c CLI) Summarize(ctx context.Context, req Request) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-p", BuildUserPrompt(req), "--system-prompt", SystemPrompt}
	if c.Model != "" {
		args = append(args, "--model", c.Model)
	}

	// #nosec G204 -- executable is resolved once by the orchestrator.
	cmd := exec.CommandContext(ctx, c.Executable, args...)
	// On cancellation only the direct child is killed; grandchildren can
	// hold the pipes open and block Wait past the deadline. WaitDelay
	// forces Run to return anyway.
	cmd.WaitDelay = 3 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("collaborator timed out after %s", timeout)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("collaborator %s failed: %s", c.Executable, detail)
	}
	return stdout.String(), nil
}
