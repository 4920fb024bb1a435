package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rxfork/worktrunk/internal/config"
	"github.com/rxfork/worktrunk/internal/hooks"
	"github.com/rxfork/worktrunk/internal/log"
	"github.com/rxfork/worktrunk/internal/process"
	"github.com/rxfork/worktrunk/internal/review"
	"github.com/rxfork/worktrunk/internal/theme"
	"github.com/rxfork/worktrunk/internal/trace"
	"github.com/rxfork/worktrunk/internal/vcs"
)

// colorAllowed resolves the final color decision from both the env-var
// policy (spec §6) and the user's configured color_mode override.
func colorAllowed(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return theme.ColorEnabled()
	}
}

// app bundles the collaborators every subcommand needs, built once per
// invocation from the resolved config and the repository the user is
// standing in.
type app struct {
	cfg      *config.AppConfig
	repoRoot string
	runner   *process.Runner
	ring     *trace.Ring
	vcs      *vcs.Service
	review   *review.Prober
	theme    *theme.Theme
	hooks    *hooks.Runner
	directive bool
}

// rootFlags holds the persistent flags every subcommand shares.
type rootFlags struct {
	configPath string
	debugLog   string
}

func newApp(rf *rootFlags) (*app, error) {
	cfg, err := config.LoadConfig(rf.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	debugLog := rf.debugLog
	if debugLog == "" {
		debugLog = cfg.DebugLog
	}
	if debugLog != "" {
		if expanded, err := config.ExpandPath(debugLog); err == nil {
			debugLog = expanded
		}
		if err := log.SetFile(debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "wt: could not open debug log %q: %v\n", debugLog, err)
		}
	}

	root, err := repoRoot()
	if err != nil {
		return nil, err
	}

	ring := trace.NewRing()
	trace.SetSink(log.Trace)
	if traceFile := os.Getenv("WT_TRACE_FILE"); traceFile != "" {
		f, err := os.OpenFile(traceFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			trace.SetSink(func(line string) { fmt.Fprintln(f, line) })
		}
	}

	runner := process.New(ring)
	svc := vcs.New(vcs.Adapt(runner), root)
	prober := review.New(review.Adapt(runner), "")

	if !colorAllowed(cfg.ColorMode) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	th := theme.Get(theme.DarkName)

	hookRunner := &hooks.Runner{TrustMode: cfg.TrustMode, Approved: cfg.ApprovedHooks, Prompt: promptApproval}

	return &app{
		cfg:       cfg,
		repoRoot:  root,
		runner:    runner,
		ring:      ring,
		vcs:       svc,
		review:    prober,
		theme:     th,
		hooks:     hookRunner,
		directive: os.Getenv(process.DirectiveEnvVar) != "",
	}, nil
}

// repoRoot resolves the repository working directory via
// `git rev-parse --show-toplevel`, run directly rather than through the
// process runner since it must succeed before the runner's repo-rooted
// Service exists.
func repoRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// promptApproval asks the user on stderr/stdin whether to trust a repo's
// hook commands once, under "tofu" trust mode (spec §7's "not-approved").
func promptApproval(cmds []config.HookCommand) bool {
	fmt.Fprintln(os.Stderr, "wt: this repository wants to run the following commands:")
	for _, c := range cmds {
		fmt.Fprintf(os.Stderr, "  %s\n", c.Command)
	}
	fmt.Fprint(os.Stderr, "Run them and remember this choice? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "wt: %v\n", err)
	os.Exit(1)
}
