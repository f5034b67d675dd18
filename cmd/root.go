package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/worklog/internal/config"
	"github.com/fakeyudi/worklog/internal/logging"
	"github.com/fakeyudi/worklog/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

// secrets holds the API keys resolved at startup.
var secrets config.Secrets

// logger is replaced in PersistentPreRunE once the config is known.
var logger = zap.NewNop()

// closeLog flushes logger and closes its log file.
var closeLog = func() error { return nil }

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "worklog",
	Short:         "Estimate work sessions and summarize work from git history",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Println()
			fmt.Println("  Welcome to worklog! Looks like this is your first time.")
			if err := runSetup(); err != nil {
				return err
			}
		}

		activeProfile = nil
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		applyProfile(&cfg, activeProfile)
		if err := cfg.Validate(); err != nil {
			return err
		}

		secrets, err = config.LoadSecrets(".")
		if err != nil {
			return fmt.Errorf("loading secrets: %w", err)
		}

		releaseLogger()
		logger, closeLog, err = logging.New(verbose, cfg.LogFile)
		if err != nil {
			logger, closeLog = zap.NewNop(), func() error { return nil }
			return fmt.Errorf("creating logger: %w", err)
		}
		logger.Debug("configuration loaded",
			zap.Int("gap_minutes", cfg.GapThresholdMinutes),
			zap.String("backend", cfg.Backend),
			zap.String("gemini_key_source", secrets.Source),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		releaseLogger()
	},
}

// applyProfile lets profile values fill in settings still at their defaults.
func applyProfile(c *config.Config, p *profile.Profile) {
	if p == nil {
		return
	}
	def := config.Defaults()
	if c.DefaultFormat == def.DefaultFormat && p.DefaultFormat != "" {
		c.DefaultFormat = p.DefaultFormat
	}
	if c.ReportsDir == def.ReportsDir && p.ReportsDir != "" {
		c.ReportsDir = p.ReportsDir
	}
	if c.GapThresholdMinutes == def.GapThresholdMinutes && p.GapMinutes > 0 {
		c.GapThresholdMinutes = p.GapMinutes
	}
}

// releaseLogger closes the current logger and falls back to a no-op one.
// PersistentPostRun is skipped when a command fails, so Execute calls it too.
func releaseLogger() {
	_ = closeLog()
	logger, closeLog = zap.NewNop(), func() error { return nil }
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	err := rootCmd.Execute()
	releaseLogger()
	if err != nil {
		os.Exit(1)
	}
}

// authorName is the profile name, if any, shown in reports.
func authorName() string {
	if activeProfile == nil {
		return ""
	}
	return activeProfile.Name
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}
