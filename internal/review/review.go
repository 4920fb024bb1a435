// Package review implements Component C: probing the optional hosted
// review tool for a branch's pull-request/merge-request state and check
// rollup. Authentication failure, tool absence, or JSON mismatch all
// collapse to "no review status" — never an error.
package review

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rxfork/worktrunk/internal/item"
)

// Runner is the minimal process-running capability this package needs.
type Runner interface {
	Run(ctx context.Context, args []string, contextTag string) (RunResult, error)
}

// RunResult mirrors process.Result, duplicated locally so this package
// stays decoupled from internal/process for testing.
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Prober queries GitHub (gh) then GitLab (glab) for a branch's review
// status, in the four-step priority order from spec §4.C: PR view, then
// branch-workflow runs, then the second provider's PR/MR view, then its
// pipeline runs.
type Prober struct {
	run  Runner
	repo string // "owner/repo" for gh --repo; "" lets the CLI infer it
}

// New builds a Prober. repo may be empty to let gh/glab infer the remote.
func New(run Runner, repo string) *Prober {
	return &Prober{run: run, repo: repo}
}

// This package only ever supplies the command-line arguments. The Runner
// implementation (internal/process) removes only the directive variable
// from the child environment; color and locale variables reach gh/glab
// unchanged.

// Probe runs the four-step detection for branch and returns nil when none
// of the providers have anything to report.
func (p *Prober) Probe(ctx context.Context, branch, localHead string) (*item.ReviewStatus, error) {
	if rs := p.detectGitHubPR(ctx, branch, localHead); rs != nil {
		return rs, nil
	}
	if rs := p.detectGitHubWorkflow(ctx, branch); rs != nil {
		return rs, nil
	}
	if rs := p.detectGitLabMR(ctx, branch, localHead); rs != nil {
		return rs, nil
	}
	if rs := p.detectGitLabPipeline(ctx, branch); rs != nil {
		return rs, nil
	}
	return nil, nil
}

type githubPRInfo struct {
	State              string `json:"state"`
	HeadRefOid         string `json:"headRefOid"`
	MergeStateStatus   string `json:"mergeStateStatus"`
	StatusCheckRollup  []githubCheck `json:"statusCheckRollup"`
	URL                string `json:"url"`
}

type githubCheck struct {
	Conclusion string `json:"conclusion"`
	Status     string `json:"status"`
}

func (p *Prober) detectGitHubPR(ctx context.Context, branch, localHead string) *item.ReviewStatus {
	args := []string{"gh", "pr", "view", branch, "--json", "state,headRefOid,mergeStateStatus,statusCheckRollup,url"}
	args = p.withRepo(args)
	res, err := p.run.Run(ctx, args, "review-gh-pr")
	if err != nil || res.ExitCode != 0 {
		return nil
	}
	var info githubPRInfo
	if json.Unmarshal(res.Stdout, &info) != nil {
		return nil
	}
	if info.State != "OPEN" {
		return nil
	}
	ci := item.CINone
	if info.MergeStateStatus == "DIRTY" {
		ci = item.CIConflicts
	} else {
		ci = githubRollupToCI(info.StatusCheckRollup)
	}
	return &item.ReviewStatus{
		CI:      ci,
		Source:  item.SourcePullRequest,
		IsStale: info.HeadRefOid != "" && info.HeadRefOid != localHead,
		URL:     info.URL,
	}
}

func githubRollupToCI(checks []githubCheck) item.CIStatus {
	if len(checks) == 0 {
		return item.CINone
	}
	sawFailed, sawRunning, sawUnknown := false, false, false
	for _, c := range checks {
		switch c.Status {
		case "IN_PROGRESS", "QUEUED", "PENDING":
			sawRunning = true
		}
		switch c.Conclusion {
		case "FAILURE", "TIMED_OUT", "CANCELLED":
			sawFailed = true
		case "ERROR":
			return item.CIError
		case "SUCCESS", "NEUTRAL", "SKIPPED", "":
		default:
			sawUnknown = true
		}
	}
	switch {
	case sawFailed:
		return item.CIFailed
	case sawRunning:
		return item.CIRunning
	case sawUnknown:
		return item.CINone
	default:
		return item.CIPassed
	}
}

type githubWorkflowRun struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

func (p *Prober) detectGitHubWorkflow(ctx context.Context, branch string) *item.ReviewStatus {
	args := []string{"gh", "run", "list", "--branch", branch, "--limit", "1", "--json", "status,conclusion"}
	args = p.withRepo(args)
	res, err := p.run.Run(ctx, args, "review-gh-workflow")
	if err != nil || res.ExitCode != 0 {
		return nil
	}
	var runs []githubWorkflowRun
	if json.Unmarshal(res.Stdout, &runs) != nil || len(runs) == 0 {
		return nil
	}
	run := runs[0]
	ci := item.CINone
	switch run.Status {
	case "in_progress", "queued", "pending", "waiting":
		ci = item.CIRunning
	default:
		switch run.Conclusion {
		case "success":
			ci = item.CIPassed
		case "failure", "timed_out", "cancelled":
			ci = item.CIFailed
		default:
			ci = item.CINone
		}
	}
	return &item.ReviewStatus{CI: ci, Source: item.SourceBranch, IsStale: false}
}

type gitlabMRInfo struct {
	State                string `json:"state"`
	SHA                  string `json:"sha"`
	HasConflicts         bool   `json:"has_conflicts"`
	DetailedMergeStatus  string `json:"detailed_merge_status"`
	WebURL               string `json:"web_url"`
	Pipeline             *gitlabPipeline `json:"pipeline"`
}

type gitlabPipeline struct {
	Status string `json:"status"`
}

func (p *Prober) detectGitLabMR(ctx context.Context, branch, localHead string) *item.ReviewStatus {
	res, err := p.run.Run(ctx, []string{"glab", "mr", "view", branch, "--output", "json"}, "review-glab-mr")
	if err != nil || res.ExitCode != 0 {
		return nil
	}
	var info gitlabMRInfo
	if json.Unmarshal(res.Stdout, &info) != nil {
		return nil
	}
	if info.State != "opened" {
		return nil
	}
	var ci item.CIStatus
	switch {
	case info.HasConflicts || info.DetailedMergeStatus == "conflict":
		ci = item.CIConflicts
	case info.DetailedMergeStatus == "ci_still_running":
		ci = item.CIRunning
	case info.DetailedMergeStatus == "ci_must_pass":
		ci = item.CIFailed
	default:
		ci = gitlabPipelineToCI(info.Pipeline)
	}
	return &item.ReviewStatus{
		CI:      ci,
		Source:  item.SourcePullRequest,
		IsStale: info.SHA != localHead,
		URL:     info.WebURL,
	}
}

func gitlabPipelineToCI(p *gitlabPipeline) item.CIStatus {
	if p == nil {
		return item.CINone
	}
	switch p.Status {
	case "running", "pending", "preparing", "waiting_for_resource", "created", "scheduled":
		return item.CIRunning
	case "failed", "canceled", "manual":
		return item.CIFailed
	case "success":
		return item.CIPassed
	default:
		return item.CINone
	}
}

// glabPipelineStatus pulls the status word out of `glab ci status`'s first
// line, formatted "• (status) ...".
func glabPipelineStatus(stdout []byte) string {
	line, _, _ := strings.Cut(string(stdout), "\n")
	open := strings.IndexByte(line, '(')
	shut := strings.IndexByte(line, ')')
	if open == -1 || shut == -1 || shut < open {
		return ""
	}
	return line[open+1 : shut]
}

func (p *Prober) detectGitLabPipeline(ctx context.Context, branch string) *item.ReviewStatus {
	res, err := p.run.Run(ctx, []string{"glab", "ci", "status", "--branch", branch}, "review-glab-pipeline")
	if err != nil || res.ExitCode != 0 {
		return nil
	}
	status := glabPipelineStatus(res.Stdout)
	if status == "" {
		return nil
	}
	ci := gitlabPipelineToCI(&gitlabPipeline{Status: status})
	return &item.ReviewStatus{CI: ci, Source: item.SourceBranch, IsStale: false}
}

func (p *Prober) withRepo(args []string) []string {
	if p.repo == "" {
		return args
	}
	return append(args, "--repo", p.repo)
}
