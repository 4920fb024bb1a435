// Package directive implements the shell-integration wire protocol (§6):
// in directive mode stdout stays empty until the process is about to exit,
// at which point exactly one shell-script line is written and evaluated by
// the calling shell function via command substitution. Every other message
// goes to stderr in real time, never stdout, so the shell wrapper never
// evaluates human-facing text as a command.
package directive

import (
	"fmt"
	"sort"
	"strings"
)

// Quote quotes a string for safe use inside the emitted shell script,
// adapted from the teacher's shell-quoting helper: wrap in single quotes,
// escape embedded single quotes by closing, inserting an escaped quote, and
// reopening the quoted run.
func Quote(input string) string {
	if input == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(input, "'", `'"'"'`) + "'"
}

// ExportEnv builds "export KEY=VALUE;" clauses for a deterministic,
// sorted set of environment variables the target shell should pick up
// after a directive (e.g. the previous-worktree marker on switch).
func ExportEnv(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("export %s=%s;", k, Quote(env[k])))
	}
	return strings.Join(parts, " ")
}

// Script is the single line a directive-mode invocation emits on stdout:
// an optional cd, optional env exports, and an optional user-supplied exec,
// joined so the shell wrapper can `eval` it as one command.
type Script struct {
	ChangeDir string            // empty means no cd
	Env       map[string]string // extra vars to export before Exec
	Exec      string            // empty means nothing further to run
}

// Render produces the exact line to print to stdout (without a trailing
// newline; the caller appends one, per §6's "followed by a newline").
func (s Script) Render() string {
	var clauses []string
	if s.ChangeDir != "" {
		clauses = append(clauses, "cd "+Quote(s.ChangeDir)+";")
	}
	if env := ExportEnv(s.Env); env != "" {
		clauses = append(clauses, env)
	}
	if s.Exec != "" {
		clauses = append(clauses, s.Exec)
	}
	return strings.Join(clauses, " ")
}

// IsEmpty reports whether this script has nothing to evaluate — directive
// mode still prints the (empty) line so the shell wrapper's command
// substitution always completes.
func (s Script) IsEmpty() bool {
	return s.ChangeDir == "" && len(s.Env) == 0 && s.Exec == ""
}
