// Package hooks runs the user-defined init/terminate commands write-side
// commands attach to worktree create/remove, gated by the approval policy
// spec §7 calls "not-approved": the core inspector (`list`) never reaches
// this package at all.
package hooks

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rxfork/worktrunk/internal/config"
	"github.com/rxfork/worktrunk/internal/werr"
)

// Prompter asks the user whether to trust and run a repo's hook commands
// once, under "tofu" trust mode. It returns the user's answer.
type Prompter func(cmds []config.HookCommand) (approved bool)

// Runner executes an approved command list with bash -lc, one command at a
// time, matching the teacher's ExecuteCommands idiom.
type Runner struct {
	TrustMode string // "tofu", "never", "always"
	Approved  []string
	Prompt    Prompter // nil in non-interactive contexts
}

// approvalKey joins every command string in order so a hook set approved
// once matches only that exact set — adding or reordering commands requires
// re-approval.
func approvalKey(cmds []config.HookCommand) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.Command
	}
	return strings.Join(parts, "\x00")
}

func (r *Runner) isApproved(cmds []config.HookCommand) bool {
	key := approvalKey(cmds)
	for _, a := range r.Approved {
		if a == key {
			return true
		}
	}
	return false
}

// Authorize decides whether cmds may run, per the configured trust mode.
// On a fresh tofu approval it returns the key to persist in config's
// approved_hooks list; callers that get a non-empty newlyApproved should
// append it and save the config.
func (r *Runner) Authorize(cmds []config.HookCommand) (allowed bool, newlyApproved string, err error) {
	if len(cmds) == 0 {
		return false, "", nil
	}

	switch r.TrustMode {
	case "never":
		return false, "", nil
	case "always":
		return true, "", nil
	}

	if r.isApproved(cmds) {
		return true, "", nil
	}

	if r.Prompt == nil {
		return false, "", &werr.NotApproved{Hook: approvalKey(cmds)}
	}
	if !r.Prompt(cmds) {
		return false, "", &werr.UserAbort{Reason: "hook approval declined"}
	}
	return true, approvalKey(cmds), nil
}

// Run authorizes then executes cmds in cwd with the given extra environment
// variables, stopping at the first failing command.
func (r *Runner) Run(ctx context.Context, cmds []config.HookCommand, cwd string, env map[string]string) (newlyApproved string, err error) {
	allowed, newlyApproved, err := r.Authorize(cmds)
	if err != nil {
		return "", err
	}
	if !allowed {
		return newlyApproved, nil
	}

	for _, c := range cmds {
		if strings.TrimSpace(c.Command) == "" {
			continue
		}
		// #nosec G204 -- commands come from the local repo/user config and are
		// intentionally run through the user's shell, gated by Authorize above.
		cmd := exec.CommandContext(ctx, "bash", "-lc", c.Command)
		cmd.Dir = cwd
		cmd.Env = append(os.Environ(), formatEnv(env)...)
		out, runErr := cmd.CombinedOutput()
		if runErr != nil {
			detail := strings.TrimSpace(string(out))
			return newlyApproved, &werr.ChildFailed{Command: "bash", Args: []string{"-lc", c.Command}, ExitCode: exitCode(runErr), Stderr: detail}
		}
	}
	return newlyApproved, nil
}

func formatEnv(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
