// Package main provides the CLI entrypoint for lophoc.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/lophoc/internal/config"
	"github.com/verte-zerg/lophoc/internal/content"
	"github.com/verte-zerg/lophoc/internal/game"
	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/logging"
	"github.com/verte-zerg/lophoc/internal/model"
	"github.com/verte-zerg/lophoc/internal/stats"
	"github.com/verte-zerg/lophoc/internal/statsui"
	"github.com/verte-zerg/lophoc/internal/store"
	"github.com/verte-zerg/lophoc/internal/tui"
)

const defaultCurveWindow = 5

var (
	playModel     string
	playItemsFile string
	playOffline   bool
	playDebug     bool

	statsPlayer      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lophoc",
		Short:         "Vietnamese grade-3 practice exercises in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playModel, "model", content.DefaultModel, "generative model used for sorting items")
	rootCmd.Flags().StringVar(&playItemsFile, "items-file", "", "read sorting items from a local file instead of the provider")
	rootCmd.Flags().BoolVar(&playOffline, "offline", false, "use the built-in item list only")
	rootCmd.Flags().BoolVar(&playDebug, "debug", false, "write debug-level diagnostics to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newResetLeaderboardCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, envCfg, err := loadPlayConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ItemsFile != "" {
		if _, err := content.LoadItems(cfg.ItemsFile); err != nil {
			return fmt.Errorf("failed to load items file: %w", err)
		}
	}

	logger, err := openLogger(envCfg, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() {
		// Sync on a plain file; errors are not actionable here.
		_ = logger.Sync()
	}()

	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := resolveSource(ctx, cfg)
	if err != nil {
		return err
	}
	if source == nil {
		logger.Info("using built-in items")
	} else {
		logger.Info("content source selected", zap.String("source", source.Name()))
	}

	ctrl := game.NewController(game.Deps{
		Fetcher:     content.NewFetcher(source, logger),
		Shuffler:    content.NewShuffler(),
		Leaderboard: leaderboard.New(st, logger),
		History:     st,
		Logger:      logger,
	})
	program := tea.NewProgram(tui.NewApp(ctx, ctrl), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadPlayConfig layers flags over environment over the TOML file over defaults.
func loadPlayConfig(cmd *cobra.Command) (model.Config, config.EnvConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, config.EnvConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return model.Config{}, config.EnvConfig{}, err
	}
	applyStringConfig(cmd, "model", &playModel, fileCfg.Play.Model)
	applyStringConfig(cmd, "items-file", &playItemsFile, fileCfg.Play.ItemsFile)
	applyBoolConfig(cmd, "offline", &playOffline, fileCfg.Play.Offline)
	applyBoolConfig(cmd, "debug", &playDebug, fileCfg.Play.Debug)
	if envCfg.Model != "" {
		applyStringConfig(cmd, "model", &playModel, &envCfg.Model)
	}

	cfg := model.Config{
		Model:     strings.TrimSpace(playModel),
		ItemsFile: strings.TrimSpace(playItemsFile),
		APIKey:    envCfg.Credential(),
		Offline:   playOffline,
		Debug:     playDebug,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, config.EnvConfig{}, err
	}
	return cfg, envCfg, nil
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Model) == "" {
		return fmt.Errorf("--model must not be empty")
	}
	if cfg.Offline && cfg.ItemsFile != "" {
		return fmt.Errorf("--offline and --items-file are mutually exclusive")
	}
	return nil
}

// resolveSource picks the primary content source. A nil source means the
// built-in list is used for every session.
func resolveSource(ctx context.Context, cfg model.Config) (content.Source, error) {
	switch {
	case cfg.Offline:
		return nil, nil
	case cfg.ItemsFile != "":
		return content.NewFileSource(cfg.ItemsFile), nil
	}
	gemini, err := content.NewGemini(ctx, cfg.APIKey, cfg.Model)
	if errors.Is(err, content.ErrNoCredential) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create content provider: %w", err)
	}
	return gemini, nil
}

func openLogger(envCfg config.EnvConfig, debug bool) (*zap.Logger, error) {
	path := envCfg.LogPath
	if path == "" {
		path = config.DefaultLogPath()
	}
	return logging.New(path, debug)
}

func openStore(envCfg config.EnvConfig) (*store.Store, error) {
	path := envCfg.DBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
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
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPlayer, "player", "", "player name filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig()
	if err != nil {
		return err
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	st, err := openStore(envCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), cfg.CurveWindow)
	}

	board := leaderboard.New(st, zap.NewNop())
	program := tea.NewProgram(statsui.NewModel(st, board, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig() (model.StatsConfig, error) {
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	return model.StatsConfig{
		Player:      model.NormalizeText(statsPlayer),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top 10 sorting results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envCfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			st, err := openStore(envCfg)
			if err != nil {
				return err
			}
			defer closeStore(st)
			board := leaderboard.New(st, zap.NewNop()).Load(cmd.Context())
			return stats.RenderLeaderboard(cmd.OutOrStdout(), board)
		},
	}
}

func newResetLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-leaderboard",
		Short: "Clear the sorting leaderboard (session history is kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envCfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			st, err := openStore(envCfg)
			if err != nil {
				return err
			}
			defer closeStore(st)
			if err := leaderboard.New(st, zap.NewNop()).Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear leaderboard: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Đã xoá bảng xếp hạng.")
			return err
		},
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lophoc configuration
# Uncomment a value to enable it. CLI flags override config values.
# The provider key is read from GEMINI_API_KEY (or API_KEY), never from this file.

[play]
# model = %q      # Generative model for sorting items
# items-file = ""                  # Local item list ("pet: Con Mèo" per line)
# offline = false                  # Use the built-in item list only
# debug = false                    # Debug-level log file
`, content.DefaultModel)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
