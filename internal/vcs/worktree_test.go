package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWorktreeList(t *testing.T) {
	output := "worktree /path/to/main\n" +
		"HEAD abcd1234\n" +
		"branch refs/heads/main\n" +
		"\n" +
		"worktree /path/to/feature\n" +
		"HEAD efgh5678\n" +
		"branch refs/heads/feature\n" +
		"\n"

	list := ParseWorktreeList(output)
	assert.Len(t, list, 2)
	assert.Equal(t, "/path/to/main", list[0].Path)
	assert.Equal(t, "abcd1234", list[0].Head)
	assert.Equal(t, "main", list[0].Branch)
	assert.False(t, list[0].Bare)
	assert.False(t, list[0].Detached)

	assert.Equal(t, "feature", list[1].Branch)
}

func TestParseDetachedWorktree(t *testing.T) {
	output := "worktree /path/to/detached\nHEAD abcd1234\ndetached\n\n"
	list := ParseWorktreeList(output)
	assert.Len(t, list, 1)
	assert.True(t, list[0].Detached)
	assert.Equal(t, "", list[0].Branch)
}

func TestParseLockedWorktree(t *testing.T) {
	output := "worktree /path/to/locked\nHEAD abcd1234\nbranch refs/heads/main\nlocked reason for lock\n\n"
	list := ParseWorktreeList(output)
	assert.Len(t, list, 1)
	assert.True(t, list[0].LockedSet)
	assert.Equal(t, "reason for lock", list[0].Locked)
}

func TestParseBareWorktreeFilteredOut(t *testing.T) {
	output := "worktree /path/to/bare\nHEAD abcd1234\nbare\n\n" +
		"worktree /path/to/main\nHEAD efgh5678\nbranch refs/heads/main\n\n"
	list := ParseWorktreeList(output)
	assert.Len(t, list, 2)
	filtered := FilterBareAndOrderMain(list)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "/path/to/main", filtered[0].Path)
}

func TestParseLocalDefaultBranch(t *testing.T) {
	cases := []struct{ in, want string }{
		{"origin/main\n", "main"},
		{"main\n", "main"},
		{"origin/master\n", "master"},
		{"origin/develop\n", "develop"},
	}
	for _, c := range cases {
		got, err := parseLocalDefaultBranch(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestParseLocalDefaultBranchEmpty(t *testing.T) {
	_, err := parseLocalDefaultBranch("")
	assert.Error(t, err)
}

func TestParseRemoteDefaultBranch(t *testing.T) {
	output := "ref: refs/heads/main\tHEAD\n85a1ce7c7182540f9c02453441cb3e8bf0ced214\tHEAD\n"
	got, err := parseRemoteDefaultBranch(output)
	assert.NoError(t, err)
	assert.Equal(t, "main", got)
}

func TestParseRemoteDefaultBranchCustom(t *testing.T) {
	output := "ref: refs/heads/develop\tHEAD\n1234567890abcdef1234567890abcdef12345678\tHEAD\n"
	got, err := parseRemoteDefaultBranch(output)
	assert.NoError(t, err)
	assert.Equal(t, "develop", got)
}

func TestParseStatusV2WorkingTreeFlags(t *testing.T) {
	output := "# branch.oid abcd1234\n" +
		"# branch.head main\n" +
		"# branch.upstream origin/main\n" +
		"# branch.ab +1 -2\n" +
		"1 M. N... 100644 100644 100644 abc def file1.txt\n" +
		"1 .M N... 100644 100644 100644 abc def file2.txt\n" +
		"? untracked.txt\n"

	flags, up := ParseStatusV2(output)
	assert.True(t, flags.Staged)
	assert.True(t, flags.Modified)
	assert.True(t, flags.Untracked)
	assert.True(t, up.HasUpstream)
	assert.Equal(t, "origin/main", up.Branch)
	assert.Equal(t, 1, up.AheadBehind.Ahead)
	assert.Equal(t, 2, up.AheadBehind.Behind)
}

func TestSumNumstat(t *testing.T) {
	d := sumNumstat("3\t1\tfile1.txt\n5\t0\tfile2.txt\n")
	assert.Equal(t, 8, d.Added)
	assert.Equal(t, 1, d.Deleted)
}

func TestDetectGitOperationPrecedence(t *testing.T) {
	assert.Equal(t, OpConflicts, DetectGitOperation(true, true, 2))
	assert.Equal(t, OpRebase, DetectGitOperation(true, false, 0))
	assert.Equal(t, OpMerge, DetectGitOperation(false, true, 0))
	assert.Equal(t, OpNone, DetectGitOperation(false, false, 0))
}
