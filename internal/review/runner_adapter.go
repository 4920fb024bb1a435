package review

import (
	"context"

	"github.com/rxfork/worktrunk/internal/process"
)

type processRunnerAdapter struct {
	inner *process.Runner
}

// Adapt wraps a real process.Runner for use as a review.Runner.
func Adapt(r *process.Runner) Runner {
	return &processRunnerAdapter{inner: r}
}

func (a *processRunnerAdapter) Run(ctx context.Context, args []string, tag string) (RunResult, error) {
	res, err := a.inner.Run(ctx, args, tag)
	return RunResult{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}, err
}
