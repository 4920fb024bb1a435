package vcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWorktreeCreatesBranchAndPath(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"worktree-add": {ExitCode: 0},
	}}
	s := New(run, "/repo")
	err := s.AddWorktree(context.Background(), "feature", "/repo/../feature", "main")
	require.NoError(t, err)
}

func TestAddWorktreeReturnsChildFailed(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"worktree-add": {ExitCode: 128, Stderr: []byte("fatal: already exists")},
	}}
	s := New(run, "/repo")
	err := s.AddWorktree(context.Background(), "feature", "/repo/../feature", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddWorktreeExistingBranchOmitsDashB(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"worktree-add-existing": {ExitCode: 0},
	}}
	s := New(run, "/repo")
	require.NoError(t, s.AddWorktreeExistingBranch(context.Background(), "/repo/../feature", "feature"))
}

func TestRemoveWorktreeForces(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"worktree-remove": {ExitCode: 0},
	}}
	s := New(run, "/repo")
	require.NoError(t, s.RemoveWorktree(context.Background(), "/repo/../feature"))
}

func TestDeleteBranchPropagatesFailure(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"branch-delete": {ExitCode: 1, Stderr: []byte("error: not fully merged")},
	}}
	s := New(run, "/repo")
	err := s.DeleteBranch(context.Background(), "feature")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not fully merged")
}

func TestPushReturnsCombinedOutputOnSuccess(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"push": {ExitCode: 0, Stdout: []byte("Everything up-to-date")},
	}}
	s := New(run, "/repo")
	out, err := s.Push(context.Background(), "/repo", "-u", "origin", "feature")
	require.NoError(t, err)
	assert.Contains(t, out, "up-to-date")
}

func TestPushReturnsErrorOnNonZeroExit(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"push": {ExitCode: 1, Stderr: []byte("rejected")},
	}}
	s := New(run, "/repo")
	_, err := s.Push(context.Background(), "/repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestFetchAllSucceeds(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"fetch-all": {ExitCode: 0},
	}}
	s := New(run, "/repo")
	require.NoError(t, s.FetchAll(context.Background()))
}

func TestAbsorbRebaseThenFastForward(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"absorb-rebase": {ExitCode: 0},
		"absorb-ff":     {ExitCode: 0},
	}}
	s := New(run, "/repo")
	err := s.Absorb(context.Background(), "/repo/../feature", "/repo", "feature", "main", "rebase")
	require.NoError(t, err)
}

func TestAbsorbRebaseFailureStopsBeforeFastForward(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"absorb-rebase": {ExitCode: 1, Stderr: []byte("conflict in file.go")},
	}}
	s := New(run, "/repo")
	err := s.Absorb(context.Background(), "/repo/../feature", "/repo", "feature", "main", "rebase")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict in file.go")
}

func TestAbsorbMergeNoEdit(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"absorb-merge": {ExitCode: 0},
	}}
	s := New(run, "/repo")
	err := s.Absorb(context.Background(), "/repo/../feature", "/repo", "feature", "main", "merge")
	require.NoError(t, err)
}

func TestAbsorbMergeConflict(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"absorb-merge": {ExitCode: 1, Stderr: []byte("CONFLICT")},
	}}
	s := New(run, "/repo")
	err := s.Absorb(context.Background(), "/repo/../feature", "/repo", "feature", "main", "merge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve conflicts")
}

func TestCurrentBranchTrimsOutput(t *testing.T) {
	run := &scriptedRunner{byTag: map[string]RunResult{
		"current-branch": {ExitCode: 0, Stdout: []byte("feature\n")},
	}}
	s := New(run, "/repo")
	name, err := s.CurrentBranch(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "feature", name)
}
