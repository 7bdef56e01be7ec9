package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nebula-lang/nbcheck/internal/ci"
	"github.com/nebula-lang/nbcheck/internal/config"
	"github.com/nebula-lang/nbcheck/internal/exec"
	"github.com/nebula-lang/nbcheck/internal/pipeline"
	"github.com/nebula-lang/nbcheck/internal/report"
	"github.com/nebula-lang/nbcheck/internal/ui"
	"github.com/nebula-lang/nbcheck/internal/version"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	cfgFile    string
	projectDir string
	reportFile string
	logger     *log.Logger
	cfg        *config.Config

	// runner launches the external tools; tests swap in a fake.
	runner exec.Runner = exec.OS
)

var rootCmd = &cobra.Command{
	Use:   "nbcheck",
	Short: "Gate a change on cargo check, cargo test and grammar samples",
	Long: `nbcheck runs the project's checks in order and stops at the first failure:

  1. static check   (cargo check)
  2. test suite     (cargo test)
  3. grammar check  (antlr4-parse specs/NebulaParser.g4 entry_file examples/src/*.n)

Every sample is checked even after one fails. The exit status is 0 when
everything passed and 1 otherwise.

Commands and paths can be overridden in nbcheck.yaml (or nbcheck.toml) in
the project root.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		return nil
	},
	RunE: runGate,
}

func runGate(cmd *cobra.Command, args []string) error {
	rootDir, err := getProjectRoot()
	if err != nil {
		return fmt.Errorf("finding project root: %w", err)
	}

	cfg, err = loadConfig(rootDir)
	if err != nil {
		return err
	}
	applyUISettings()
	setupLogger()
	logger.Debug("project", "root", rootDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := ui.NewReporter(cmd.OutOrStdout(), ui.ActivePalette())
	gate := pipeline.New(cfg, rootDir, runner, reporter, logger,
		pipeline.WithSpinner(ui.RunWithSpinner),
		pipeline.WithCI(ci.Detect()),
	)

	res, err := gate.Run(ctx)
	if res != nil {
		for _, stage := range pipeline.Stages {
			if d, ok := res.Durations[stage]; ok {
				logger.Debug("stage timing", "stage", stage, "duration", d.Round(time.Millisecond))
			}
		}
	}

	if reportFile != "" {
		rep := report.New(rootDir, version.Current())
		rep.Record(res)
		if saveErr := rep.Save(reportFile); saveErr != nil {
			logger.Warn("could not write report", "path", reportFile, "error", saveErr)
		} else {
			logger.Debug("report written", "path", reportFile)
		}
	}
	return err
}

func loadConfig(rootDir string) (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.ConfigPath(rootDir)
		if _, err := os.Stat(path); err != nil {
			logger.Debug("no config file, using defaults", "path", path)
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return loaded, nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return pipeline.ExitSuccess
	}

	// Stage failures were already reported on the console.
	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		if logger == nil {
			setupLogger()
		}
		logger.Error(err.Error())
	}
	return pipeline.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: nbcheck.yaml)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "Project directory")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "Write a JSON report of the run to this file")

	rootCmd.Version = version.Current().Short()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

func applyUISettings() {
	disabled := noColor || ui.NoColorRequested()
	if cfg == nil {
		ui.ApplyTheme("", disabled)
		return
	}
	ui.ApplyTheme(cfg.UI.Theme, disabled || cfg.UI.NoColor)
}

func setupLogger() {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.WarnLevel
	}

	styles := log.DefaultStyles()
	if !noColor && !ui.NoColorRequested() {
		styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
			SetString("DEBUG").
			Foreground(ui.Muted).
			Bold(true)
		styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
			SetString("INFO").
			Foreground(ui.Info).
			Bold(true)
		styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
			SetString("WARN").
			Foreground(ui.Warning).
			Bold(true)
		styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
			SetString("ERROR").
			Foreground(ui.Error).
			Bold(true)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})
	logger.SetStyles(styles)
}

func getProjectRoot() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	return config.FindProjectRoot()
}
