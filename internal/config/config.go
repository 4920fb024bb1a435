// Package config loads application and per-repository configuration from
// TOML. Loading is an external collaborator: the core inspector only ever
// consumes the resolved AppConfig fields it actually needs (column
// visibility, color policy, default-branch override). ProcessLimit and
// HeavyLimit are parsed but internal/process does not read them; its bounds
// come from WT_PROCESS_LIMIT/WT_HEAVY_LIMIT. Everything else here exists for
// the write-side commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// HookCommand is a single user-defined shell command run around a write-side
// operation (worktree create/remove), gated through internal/hooks' approval
// check before it is ever executed.
type HookCommand struct {
	Command     string
	Description string
}

// AppConfig holds the fully-resolved, user-writable settings.
type AppConfig struct {
	WorktreeDir       string
	DefaultBranch     string // override for internal/vcs's default-branch resolution, step 1
	ProcessLimit      int    // parsed from process_limit; not read by internal/process
	HeavyLimit        int
	DisabledColumns   []string // column.Kind names hidden regardless of layout pressure
	ColorMode         string   // "auto", "always", "never"
	TrustMode         string   // "tofu", "never", "always" — hook approval policy, see internal/hooks
	MergeMethod       string   // "rebase" or "merge", used by the merge subcommand
	ApprovedHooks     []string // command strings approved under "tofu" trust, persisted across runs
	InitCommands      []HookCommand
	TerminateCommands []HookCommand
	Editor            string
	DebugLog          string
	ConfigPath        string `toml:"-"`
}

// RepoConfig is the per-repository override loaded from .wt.toml.
type RepoConfig struct {
	Path              string
	InitCommands      []HookCommand
	TerminateCommands []HookCommand
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ProcessLimit: 0,
		HeavyLimit:   0,
		ColorMode:    "auto",
		TrustMode:    "tofu",
		MergeMethod:  "rebase",
	}
}

func normalizeHookList(value any) []HookCommand {
	switch v := value.(type) {
	case []any:
		out := make([]HookCommand, 0, len(v))
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				text := strings.TrimSpace(e)
				if text != "" {
					out = append(out, HookCommand{Command: text})
				}
			case map[string]any:
				cmd, _ := e["command"].(string)
				cmd = strings.TrimSpace(cmd)
				if cmd == "" {
					continue
				}
				desc, _ := e["description"].(string)
				out = append(out, HookCommand{Command: cmd, Description: strings.TrimSpace(desc)})
			}
		}
		return out
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		return []HookCommand{{Command: text}}
	}
	return nil
}

func normalizeStringList(value any) []string {
	v, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(v))
	for _, entry := range v {
		if s, ok := entry.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceInt(value any, defaultVal int) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	if v, ok := data["worktree_dir"].(string); ok {
		if v = strings.TrimSpace(v); v != "" {
			cfg.WorktreeDir = v
		}
	}
	if v, ok := data["default_branch"].(string); ok {
		cfg.DefaultBranch = strings.TrimSpace(v)
	}
	if v, ok := data["editor"].(string); ok {
		cfg.Editor = strings.TrimSpace(v)
	}
	if v, ok := data["debug_log"].(string); ok {
		cfg.DebugLog = strings.TrimSpace(v)
	}

	cfg.ProcessLimit = coerceInt(data["process_limit"], 0)
	cfg.HeavyLimit = coerceInt(data["heavy_limit"], 0)

	if v, ok := data["color"].(string); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "auto" || v == "always" || v == "never" {
			cfg.ColorMode = v
		}
	}

	if v, ok := data["trust_mode"].(string); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "tofu" || v == "never" || v == "always" {
			cfg.TrustMode = v
		}
	}

	if v, ok := data["merge_method"].(string); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "rebase" || v == "merge" {
			cfg.MergeMethod = v
		}
	}

	cfg.DisabledColumns = normalizeStringList(data["disabled_columns"])
	cfg.ApprovedHooks = normalizeStringList(data["approved_hooks"])
	cfg.InitCommands = normalizeHookList(data["init_commands"])
	cfg.TerminateCommands = normalizeHookList(data["terminate_commands"])

	return cfg
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from config.toml, or from
// configPath if given (which must resolve inside the XDG config dir).
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "worktrunk"))

	var paths []string
	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{filepath.Join(configBase, "config.toml")}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory above
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var tomlData map[string]any
		if _, err := toml.Decode(string(data), &tomlData); err != nil {
			return DefaultConfig(), nil
		}

		cfg := parseConfig(tomlData)
		cfg.ConfigPath = path
		return cfg, nil
	}

	return DefaultConfig(), nil
}

// SaveApprovedHooks persists cfg.ApprovedHooks back to the config file,
// so a hook approved once under "tofu" trust is not re-prompted on the
// next invocation. It rewrites only the approved_hooks key, leaving the
// rest of the file's keys (and cfg.ConfigPath, if the file pre-existed)
// untouched.
func SaveApprovedHooks(cfg *AppConfig) error {
	path := cfg.ConfigPath
	if path == "" {
		path = filepath.Join(filepath.Clean(filepath.Join(getConfigDir(), "worktrunk")), "config.toml")
	}

	data := map[string]any{}
	if raw, err := os.ReadFile(path); err == nil {
		_, _ = toml.Decode(string(raw), &data)
	}
	data["approved_hooks"] = cfg.ApprovedHooks

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadRepoConfig loads repository-scoped hooks from .wt.toml in repoPath.
func LoadRepoConfig(repoPath string) (*RepoConfig, string, error) {
	if repoPath == "" {
		return nil, "", fmt.Errorf("empty repo path")
	}
	cleanRepoPath := filepath.Clean(repoPath)
	wtPath := filepath.Join(cleanRepoPath, ".wt.toml")
	if _, err := os.Stat(wtPath); os.IsNotExist(err) {
		return nil, wtPath, nil
	}

	if !isPathWithin(cleanRepoPath, wtPath) {
		return nil, "", fmt.Errorf("invalid repo path %q", repoPath)
	}

	// #nosec G304 -- confined to the repo root by isPathWithin above
	data, err := os.ReadFile(wtPath)
	if err != nil {
		return nil, wtPath, fmt.Errorf("failed to read .wt.toml: %w", err)
	}

	var tomlData map[string]any
	if _, err := toml.Decode(string(data), &tomlData); err != nil {
		return nil, wtPath, fmt.Errorf("failed to parse .wt.toml: %w", err)
	}

	cfg := &RepoConfig{
		Path:              wtPath,
		InitCommands:      normalizeHookList(tomlData["init_commands"]),
		TerminateCommands: normalizeHookList(tomlData["terminate_commands"]),
	}
	return cfg, wtPath, nil
}

// ExpandPath resolves a leading "~" to the user's home directory and
// expands $VAR references, for paths used outside the config loader itself
// (such as the --debug-log path).
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
