package vcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectOperationPrioritizesConflicts(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"ref-exists":           {ExitCode: 0},
		"status-conflicts":     {ExitCode: 0, Stdout: []byte("u UU file.go\n1 .M N... 100644 100644 100644 sha sha file2.go\n")},
	}}
	s := New(run, "/repo/wt")
	op, err := s.DetectOperation(context.Background(), "/repo/wt")
	assert.NoError(t, err)
	assert.Equal(t, OpConflicts, op)
}

func TestDetectOperationNoneWhenClean(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"status-conflicts": {ExitCode: 0},
	}}
	s := New(run, "/repo/wt")
	op, err := s.DetectOperation(context.Background(), "/repo/wt")
	assert.NoError(t, err)
	assert.Equal(t, OpNone, op)
}

func TestListLocalBranchesSplitsLines(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"for-each-ref": {ExitCode: 0, Stdout: []byte("main\nfeature/x\n")},
	}}
	s := New(run, "/repo")
	names, err := s.ListLocalBranches(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"main", "feature/x"}, names)
}

func TestBranchHeadSHATrimsOutput(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"rev-parse-branch": {ExitCode: 0, Stdout: []byte("abcdef0123456789\n")},
	}}
	s := New(run, "/repo")
	sha, err := s.BranchHeadSHA(context.Background(), "feature/x")
	assert.NoError(t, err)
	assert.Equal(t, "abcdef0123456789", sha)
}
