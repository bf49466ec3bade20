package media

import (
	"context"
	"os/exec"
)

// ExecRunner runs commands as subprocesses.
type ExecRunner struct{}

// Run executes the command and waits for it to exit. The process is killed
// when ctx is cancelled.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
