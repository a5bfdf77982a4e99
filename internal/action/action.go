// Package action runs the commands bound to gestures.
package action

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds how long a bound command may run.
const DefaultTimeout = 10 * time.Second

// Result describes a finished command.
type Result struct {
	Source  string
	Command []string
	Output  string
	Err     error
}

// Runner starts gesture commands in the background so gesture responses stay
// non-blocking. A zero Runner is not usable; use NewRunner.
type Runner struct {
	ctx     context.Context
	timeout time.Duration
	wg      sync.WaitGroup

	// OnResult, if set, is called from the command's goroutine when it finishes.
	OnResult func(Result)
}

// NewRunner creates a runner whose commands are cancelled with ctx.
func NewRunner(ctx context.Context) *Runner {
	return &Runner{ctx: ctx, timeout: DefaultTimeout}
}

// SetTimeout overrides DefaultTimeout.
func (r *Runner) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// Run starts argv in the background. source names the gesture for logging.
// Empty commands are ignored.
func (r *Runner) Run(source string, argv []string) {
	if len(argv) == 0 {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
		res := Result{
			Source:  source,
			Command: argv,
			Output:  strings.TrimSpace(string(out)),
			Err:     err,
		}
		if err != nil {
			log.Printf("action: %s: %s failed: %v", source, strings.Join(argv, " "), err)
		} else {
			log.Printf("action: %s: ran %s", source, strings.Join(argv, " "))
		}
		if r.OnResult != nil {
			r.OnResult(res)
		}
	}()
}

// Bind returns a zero-argument response that runs argv. It returns nil for an
// empty command.
func (r *Runner) Bind(source string, argv []string) func() {
	if len(argv) == 0 {
		return nil
	}
	cmd := append([]string(nil), argv...)
	return func() { r.Run(source, cmd) }
}

// Wait blocks until every started command has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
