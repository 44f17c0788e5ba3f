// Package commands holds the walletshell command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/walletshell/internal/config"
	"github.com/jask/walletshell/internal/ledger"
	"github.com/jask/walletshell/internal/logging"
	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/pages"
	"github.com/jask/walletshell/internal/registry"
	"github.com/jask/walletshell/internal/state"
	"github.com/jask/walletshell/internal/transition"
	"github.com/jask/walletshell/internal/tui"
)

type flags struct {
	config         string
	page           string
	skipOnboarding bool
	noAnimation    bool
	preload        bool
	ledger         string
	logFile        string
	logLevel       string
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "walletshell",
		Short:         "Personal finance in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	fl := root.Flags()
	fl.StringVar(&f.config, "config", "", "config file (default ~/.config/walletshell/config.toml)")
	fl.StringVar(&f.page, "page", "", "page to open when onboarding is skipped")
	fl.BoolVar(&f.skipOnboarding, "skip-onboarding", false, "start signed in")
	fl.BoolVar(&f.noAnimation, "no-animation", false, "switch pages without transitions")
	fl.BoolVar(&f.preload, "preload", false, "load every lazy page in the background at start")
	fl.StringVar(&f.ledger, "ledger", "", "sqlite file for sample data (default in memory)")
	fl.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(pagesCmd())
	return root
}

// loadConfig reads the config file and applies flags the user set.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return config.Config{}, err
	}
	set := cmd.Flags().Changed
	if set("page") {
		cfg.UI.StartPage = f.page
	}
	if set("skip-onboarding") {
		cfg.Session.SkipOnboarding = f.skipOnboarding
	}
	if set("no-animation") {
		cfg.Transition.Enabled = !f.noAnimation
	}
	if set("preload") {
		cfg.UI.Preload = f.preload
	}
	if set("ledger") {
		cfg.Ledger.Path = f.ledger
	}
	if set("log-file") {
		cfg.Log.Path = f.logFile
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openLog(cfg config.LogConfig) (*logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Path == "" {
		return logging.Discard(), io.NopCloser(nil), nil
	}
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.New(logging.Config{Level: level, Writer: file}), file, nil
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, closer, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	db, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := ledger.Migrate(db); err != nil {
		return err
	}
	if err := ledger.Seed(ctx, db, ledger.SeedOptions{Seed: cfg.Ledger.Seed, Transactions: cfg.Ledger.Transactions}); err != nil {
		return err
	}
	repo := ledger.NewRepo(db, time.Now)
	snap, err := pages.LoadSnapshot(ctx, repo)
	if err != nil {
		return err
	}

	reg, err := registry.New(pages.Descriptors(pages.Deps{
		Repo:     repo,
		Currency: cfg.UI.CurrencySymbol,
		Snapshot: &snap,
	})...)
	if err != nil {
		return err
	}
	if missing := reg.Missing(); len(missing) > 0 {
		log.Warn("pages without a view fall back to the dashboard", "pages", missing)
	}

	start, _ := cfg.StartPage()
	initial := state.ApplicationState{CurrentPage: start}
	if cfg.Session.SkipOnboarding {
		initial.Session = state.Authenticated
	}
	store := state.NewStore(initial, log)

	name := ""
	if snap.Profile != nil {
		name = snap.Profile.Name
	}
	saveName := func(entered string) {
		if err := snap.SaveName(ctx, repo, entered, ledger.DefaultCurrency); err != nil {
			log.Warn("profile name not saved", "err", err)
		}
	}
	shell := tui.New(tui.Options{
		Context:  ctx,
		Registry: reg,
		Store:    store,
		Onboarding: func(done func()) registry.View {
			return pages.NewOnboarding(name, func(entered string) {
				saveName(entered)
				done()
			})
		},
		Transition: transition.Options{
			Enabled:   cfg.Transition.Enabled,
			Duration:  cfg.Transition.Duration,
			FrameRate: cfg.Transition.FrameRate,
			Offset:    cfg.Transition.Offset,
		},
		NavBreakpoint: cfg.UI.NavBreakpoint,
		Preload:       cfg.UI.Preload,
		Log:           log,
	})

	log.Info("starting", "page", start, "session", initial.Session)
	if _, err := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run shell: %w", err)
	}
	return nil
}

func pagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List page names and their jump keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, id := range page.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-14s %s\n", id.JumpKey(), id.String(), id.Title())
			}
		},
	}
}
