// Package main provides the CLI entrypoint for keydrill.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/keydrill-dev/keydrill/internal/config"
	"github.com/keydrill-dev/keydrill/internal/model"
	"github.com/keydrill-dev/keydrill/internal/snippet"
	"github.com/keydrill-dev/keydrill/internal/stats"
	"github.com/keydrill-dev/keydrill/internal/statsui"
	"github.com/keydrill-dev/keydrill/internal/store"
	"github.com/keydrill-dev/keydrill/internal/trainer"
)

const (
	defaultLang    = "go"
	defaultBlockOn = 0
)

var (
	practiceLang     string
	practiceSnippet  string
	practiceQueue    []string
	practiceTargeted bool
	practiceBlockOn  int
	practiceDir      string

	statsFilter string
	statsPlain  bool

	goalsWPM      float64
	goalsAccuracy float64
	goalsTime     float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keydrill",
		Short:         "TUI typing trainer for code",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "snippet language")
	rootCmd.Flags().StringVar(&practiceSnippet, "snippet", "", "practice a single snippet file")
	rootCmd.Flags().StringSliceVar(&practiceQueue, "queue", nil, "practice a queue of snippet files in order")
	rootCmd.Flags().BoolVar(&practiceTargeted, "targeted", false, "generate practice text from your weakest keys")
	rootCmd.Flags().IntVar(&practiceBlockOn, "block-on-error", defaultBlockOn, "consecutive errors before input feedback blocks (0 disables, max 3)")
	rootCmd.Flags().StringVar(&practiceDir, "snippet-dir", "", "snippet directory (default: XDG config)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newGoalsCmd())
	rootCmd.AddCommand(newSnippetsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "snippet-dir", &practiceDir, fileCfg.Practice.SnippetDir)
	applyIntConfig(cmd, "block-on-error", &practiceBlockOn, fileCfg.Practice.BlockOnError)
	applyBoolConfig(cmd, "targeted", &practiceTargeted, fileCfg.Practice.Targeted)

	cfg := model.Config{
		Lang:         practiceLang,
		SnippetDir:   resolveSnippetDir(practiceDir),
		BlockOnError: practiceBlockOn,
		Targeted:     practiceTargeted,
		SnippetFile:  practiceSnippet,
		QueueFiles:   practiceQueue,
	}
	if cfg.BlockOnError < 0 || cfg.BlockOnError > 3 {
		return fmt.Errorf("--block-on-error must be between 0 and 3")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	ctx := context.Background()
	goals, err := st.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	library, intent, err := resolveIntent(ctx, st, cfg)
	if err != nil {
		return err
	}

	gen := snippet.NewGenerator()
	m := trainer.NewModel(cfg, st, goals, gen, library, intent)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveIntent turns the practice flags into a session intent and the
// snippet library backing it.
func resolveIntent(ctx context.Context, st *store.Store, cfg model.Config) ([]snippet.Snippet, model.Intent, error) {
	switch {
	case len(cfg.QueueFiles) > 0:
		library := make([]snippet.Snippet, 0, len(cfg.QueueFiles))
		for _, path := range cfg.QueueFiles {
			sn, err := snippet.LoadFile(path, cfg.Lang)
			if err != nil {
				return nil, model.Intent{}, fmt.Errorf("failed to load %s: %w", path, err)
			}
			library = append(library, sn)
		}
		return library, model.Intent{Kind: model.IntentQueue, QueueFiles: cfg.QueueFiles}, nil

	case cfg.SnippetFile != "":
		sn, err := snippet.LoadFile(cfg.SnippetFile, cfg.Lang)
		if err != nil {
			return nil, model.Intent{}, fmt.Errorf("failed to load %s: %w", cfg.SnippetFile, err)
		}
		return []snippet.Snippet{sn}, model.Intent{Kind: model.IntentDefault}, nil

	case cfg.Targeted:
		library := loadLibrary(cfg)
		history, err := st.LoadHistory(ctx)
		if err != nil {
			return nil, model.Intent{}, fmt.Errorf("failed to load history: %w", err)
		}
		weak := stats.WeakKeysFromHistory(history)
		if len(weak) == 0 {
			logErrln("no weak keys yet; starting a normal session")
			return library, model.Intent{Kind: model.IntentDefault}, nil
		}
		keys := make([]string, 0, len(weak))
		for _, wk := range weak {
			keys = append(keys, wk.Key)
		}
		return library, model.Intent{Kind: model.IntentTargeted, WeakKeys: keys}, nil
	}
	return loadLibrary(cfg), model.Intent{Kind: model.IntentDefault}, nil
}

func loadLibrary(cfg model.Config) []snippet.Snippet {
	library, err := snippet.LoadDir(cfg.SnippetDir, cfg.Lang)
	if err != nil {
		logErrf("no snippet files for %q, using built-in snippets\n", cfg.Lang)
		return snippet.Builtin(cfg.Lang)
	}
	return library
}

func resolveSnippetDir(dir string) string {
	if dir != "" {
		return dir
	}
	return config.DefaultSnippetDir()
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFilter, "filter", string(model.FilterAll), "time window: 24h, 7d, 30d, or all")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, ok := model.ParseTimeFilter(statsFilter)
	if !ok {
		return fmt.Errorf("invalid --filter value %q (want 24h, 7d, 30d, or all)", statsFilter)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	ctx := context.Background()
	history, err := st.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	goals, err := st.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	if statsPlain {
		return printPlainReport(cmd, history, filter)
	}

	m := statsui.NewModel(st, history, goals, filter)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printPlainReport(cmd *cobra.Command, history []model.PracticeStats, filter model.TimeFilter) error {
	report := stats.BuildReport(history, filter, time.Now())
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Overall); err != nil {
		return err
	}
	if err := stats.RenderLanguageFocus(out, report.Focus); err != nil {
		return err
	}
	return stats.RenderWeakKeys(out, report.WeakKeys)
}

func newGoalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show or set practice goals",
		Args:  cobra.NoArgs,
		RunE:  runGoalsCmd,
	}
	cmd.Flags().Float64Var(&goalsWPM, "wpm", 0, "WPM goal")
	cmd.Flags().Float64Var(&goalsAccuracy, "accuracy", 0, "accuracy goal in percent")
	cmd.Flags().Float64Var(&goalsTime, "time", 0, "daily practice goal in minutes")
	return cmd
}

func runGoalsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	ctx := context.Background()
	goals, err := st.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("wpm") {
		goals.WPMGoal = goalsWPM
		changed = true
	}
	if cmd.Flags().Changed("accuracy") {
		goals.AccuracyGoal = goalsAccuracy
		changed = true
	}
	if cmd.Flags().Changed("time") {
		goals.TimeGoalMinutes = goalsTime
		changed = true
	}
	if changed {
		if err := st.SaveGoals(ctx, goals); err != nil {
			return fmt.Errorf("failed to save goals: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "WPM goal: %.0f\nAccuracy goal: %.0f%%\nDaily time goal: %.0f min\n",
		goals.WPMGoal, goals.AccuracyGoal, goals.TimeGoalMinutes); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSnippetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "List available snippet languages",
		Args:  cobra.NoArgs,
		RunE:  runSnippetsCmd,
	}
	cmd.Flags().StringVar(&practiceDir, "snippet-dir", "", "snippet directory (default: XDG config)")
	return cmd
}

func runSnippetsCmd(cmd *cobra.Command, _ []string) error {
	dir := resolveSnippetDir(practiceDir)
	langs, err := snippet.Languages(dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read snippet directory: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(langs) == 0 {
		if _, err := fmt.Fprintf(out, "No snippet files in %s; built-in snippets are used.\n", dir); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(out, lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keydrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q              # Snippet language
# snippet-dir = ""       # Directory with snippet files, one subdir per language
# block-on-error = %d    # Consecutive errors before input feedback blocks (0-3)
# targeted = false       # Generate practice text from your weakest keys
`,
		defaultLang,
		defaultBlockOn,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
