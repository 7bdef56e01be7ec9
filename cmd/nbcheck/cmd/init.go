package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nebula-lang/nbcheck/internal/config"
	"github.com/nebula-lang/nbcheck/internal/ui"
)

var (
	initGrammar   string
	initEntryRule string
	initSamples   string
	initExtension string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write an nbcheck.yaml for a project",
	Long: `Write an nbcheck.yaml configuration with the gate's defaults.

Without flags on an interactive terminal, the grammar file, entry rule and
samples location are asked for.

Examples:
  # Initialize in current directory
  nbcheck init

  # Non-interactive, custom grammar
  nbcheck init --grammar grammar/Nebula.g4 --entry-rule program`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	defaults := config.DefaultConfig()
	initCmd.Flags().StringVar(&initGrammar, "grammar", defaults.Grammar.File, "Grammar file, relative to the project root")
	initCmd.Flags().StringVar(&initEntryRule, "entry-rule", defaults.Grammar.EntryRule, "Grammar rule used as the parse root")
	initCmd.Flags().StringVar(&initSamples, "samples", defaults.Samples.Dir, "Directory of sample inputs")
	initCmd.Flags().StringVar(&initExtension, "ext", defaults.Samples.Extension, "Extension of sample files to check")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	configPath := filepath.Join(dir, config.YAMLFile)

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
	}

	if !anyChanged(cmd, "grammar", "entry-rule", "samples", "ext") && ui.IsInteractiveTerminal() {
		if err := promptInitOptions(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.Grammar.File = initGrammar
	cfg.Grammar.EntryRule = initEntryRule
	cfg.Samples.Dir = initSamples
	cfg.Samples.Extension = initExtension

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	applyUISettings()
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessBox().Render(fmt.Sprintf(
		"Configuration written to %s\n\nRun 'nbcheck' in the project root to gate a change.",
		configPath,
	)))
	return nil
}

func promptInitOptions() error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Grammar file").
				Description("ANTLR grammar the samples must conform to").
				Value(&initGrammar),

			huh.NewInput().
				Title("Entry rule").
				Description("Grammar rule used as the parse root").
				Value(&initEntryRule),

			huh.NewInput().
				Title("Samples directory").
				Description("Directory holding the example inputs").
				Value(&initSamples),

			huh.NewInput().
				Title("Sample extension").
				Description("Only files with this extension are checked").
				Value(&initExtension),
		),
	)

	return form.Run()
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
