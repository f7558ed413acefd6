package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/icon-manager/iconman/internal/version"
	"github.com/icon-manager/iconman/pkg/config"
	"github.com/icon-manager/iconman/pkg/logging"
	"github.com/icon-manager/iconman/pkg/pipeline"
)

var (
	verbosity int
	dryRun    bool
	configDir string

	rootCmd = &cobra.Command{
		Use:   "iconman",
		Short: "Tag folders with custom icons",
		Long: `iconman tags filesystem folders with custom icons by writing
desktop.ini marker files. Folders are matched against per-icon rule
configs; the first matching config, in weight order, wins.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Preview changes without writing anything")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"Config directory (default is the XDG config home)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newReapplyCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newTemplateCmd())
	rootCmd.AddCommand(newArchiveCmd())
}

// app bundles everything a command run needs.
type app struct {
	configDir string
	settings  *config.Settings
	configs   []*config.UserConfig
	opts      pipeline.Options
}

// loadApp resolves the config directory and loads the app settings,
// the user configs, and the shared exclude rules.
func loadApp() (*app, error) {
	dir := configDir
	if dir == "" {
		dir = config.DefaultConfigDir()
	}

	overrides := map[string]interface{}{}
	if verbosity > 0 {
		overrides["app.verbosity"] = verbosity
	}
	settings, err := config.LoadSettings(dir, overrides)
	if err != nil {
		return nil, err
	}
	if verbosity == 0 && settings.Verbosity > 0 {
		logging.SetupLogger(settings.Verbosity)
	}

	configs, err := config.DiscoverUserConfigs(dir)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no user configs found in %q", dir)
	}

	exclude, err := config.LoadExcludeManager(dir)
	if err != nil {
		return nil, err
	}
	exclude.CleanEmpty()
	exclude.Build(settings.BeforeOrAfter)

	return &app{
		configDir: dir,
		settings:  settings,
		configs:   configs,
		opts: pipeline.Options{
			Exclude:     exclude,
			Decorations: settings.BeforeOrAfter,
			Workers:     settings.Workers,
			DryRun:      dryRun,
		},
	}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("iconman version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:                   "completion [bash|zsh|fish|powershell]",
	Short:                 "Generate shell completion script",
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
