package review

import (
	"context"
	"testing"

	"github.com/rxfork/worktrunk/internal/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGithubRollupToCI(t *testing.T) {
	assert.Equal(t, item.CINone, githubRollupToCI(nil))
	assert.Equal(t, item.CIPassed, githubRollupToCI([]githubCheck{{Conclusion: "SUCCESS"}}))
	assert.Equal(t, item.CIFailed, githubRollupToCI([]githubCheck{{Conclusion: "FAILURE"}}))
	assert.Equal(t, item.CIRunning, githubRollupToCI([]githubCheck{{Status: "IN_PROGRESS"}}))
	assert.Equal(t, item.CIError, githubRollupToCI([]githubCheck{{Conclusion: "ERROR"}}))
}

func TestGitlabPipelineToCI(t *testing.T) {
	assert.Equal(t, item.CINone, gitlabPipelineToCI(nil))
	assert.Equal(t, item.CIPassed, gitlabPipelineToCI(&gitlabPipeline{Status: "success"}))
	assert.Equal(t, item.CIRunning, gitlabPipelineToCI(&gitlabPipeline{Status: "running"}))
	assert.Equal(t, item.CIFailed, gitlabPipelineToCI(&gitlabPipeline{Status: "failed"}))
	assert.Equal(t, item.CINone, gitlabPipelineToCI(&gitlabPipeline{Status: "unknown-status"}))
}

func TestGlabPipelineStatus(t *testing.T) {
	assert.Equal(t, "running", glabPipelineStatus([]byte("• (running) #12345\n")))
	assert.Equal(t, "failed", glabPipelineStatus([]byte("• (failed) #1\nmore output\n")))
	assert.Equal(t, "", glabPipelineStatus([]byte("no parens here")))
	assert.Equal(t, "", glabPipelineStatus(nil))
}

type fakeRunner struct {
	res RunResult
	err error
}

func (f fakeRunner) Run(ctx context.Context, args []string, contextTag string) (RunResult, error) {
	return f.res, f.err
}

func TestDetectGitHubWorkflowUnknownConclusionIsNoCI(t *testing.T) {
	p := New(fakeRunner{res: RunResult{
		ExitCode: 0,
		Stdout:   []byte(`[{"status":"completed","conclusion":"stale"}]`),
	}}, "")
	rs := p.detectGitHubWorkflow(context.Background(), "feature")
	require.NotNil(t, rs)
	assert.Equal(t, item.CINone, rs.CI)
}

func TestDetectGitLabPipelineParsesStatusLine(t *testing.T) {
	p := New(fakeRunner{res: RunResult{
		ExitCode: 0,
		Stdout:   []byte("• (running) #12345 triggered 2m ago\n"),
	}}, "")
	rs := p.detectGitLabPipeline(context.Background(), "feature")
	require.NotNil(t, rs)
	assert.Equal(t, item.CIRunning, rs.CI)
	assert.Equal(t, item.SourceBranch, rs.Source)
}

func TestDetectGitLabPipelineUnparsableOutputIsNil(t *testing.T) {
	p := New(fakeRunner{res: RunResult{ExitCode: 0, Stdout: []byte("no status here\n")}}, "")
	assert.Nil(t, p.detectGitLabPipeline(context.Background(), "feature"))
}
