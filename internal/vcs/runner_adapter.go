package vcs

import (
	"context"

	"github.com/rxfork/worktrunk/internal/process"
)

// processRunnerAdapter satisfies Runner using the real process.Runner,
// keeping the rest of this package decoupled from internal/process so its
// parsers stay testable with a fake.
type processRunnerAdapter struct {
	inner *process.Runner
}

// Adapt wraps a real process.Runner for use as a vcs.Runner.
func Adapt(r *process.Runner) Runner {
	return &processRunnerAdapter{inner: r}
}

func (a *processRunnerAdapter) Run(ctx context.Context, args []string, tag string) (RunResult, error) {
	res, err := a.inner.Run(ctx, args, tag)
	return RunResult{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}, err
}

func (a *processRunnerAdapter) RunHeavy(ctx context.Context, args []string, tag string) (RunResult, error) {
	res, err := a.inner.RunHeavy(ctx, args, tag)
	return RunResult{ExitCode: res.ExitCode, Stdout: res.Stdout, Stderr: res.Stderr}, err
}
