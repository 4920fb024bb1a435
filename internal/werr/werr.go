// Package werr defines the error taxonomy used across worktrunk: the six
// kinds a caller needs to tell apart when deciding whether a failure is
// fatal, partial, or a plain user cancellation.
package werr

import "fmt"

// SpawnFailed means the OS refused to start a child process (missing
// binary, permission denied, exec format error).
type SpawnFailed struct {
	Command string
	Args    []string
	Err     error
}

func (e *SpawnFailed) Error() string {
	return fmt.Sprintf("spawn %s %v: %v", e.Command, e.Args, e.Err)
}

func (e *SpawnFailed) Unwrap() error { return e.Err }

// ChildFailed means the process started but exited with a non-zero status
// the caller did not list as acceptable.
type ChildFailed struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ChildFailed) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s %v: exit %d: %s", e.Command, e.Args, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s %v: exit %d", e.Command, e.Args, e.ExitCode)
}

// ParseMismatch means a command's output did not match the shape the
// caller expected (porcelain record with an unknown key, malformed JSON).
type ParseMismatch struct {
	Source string
	Reason string
}

func (e *ParseMismatch) Error() string {
	return fmt.Sprintf("parse mismatch in %s: %s", e.Source, e.Reason)
}

// NotApproved means a user-defined hook was about to run but is not on the
// approval list, and the caller declined to add it interactively.
type NotApproved struct {
	Hook string
}

func (e *NotApproved) Error() string {
	return fmt.Sprintf("hook %q is not approved to run", e.Hook)
}

// UserAbort means the user explicitly cancelled an interactive prompt.
type UserAbort struct {
	Reason string
}

func (e *UserAbort) Error() string {
	if e.Reason == "" {
		return "aborted by user"
	}
	return fmt.Sprintf("aborted by user: %s", e.Reason)
}

// ConfigInvalid means a project or user config file failed to parse or
// failed validation.
type ConfigInvalid struct {
	Path   string
	Reason string
}

func (e *ConfigInvalid) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Path, e.Reason)
}

// Fatal reports whether err belongs to a class that should abort the whole
// invocation rather than degrade a single item to a partial result.
func Fatal(err error) bool {
	switch err.(type) {
	case *NotApproved, *UserAbort, *ConfigInvalid:
		return true
	default:
		return false
	}
}
