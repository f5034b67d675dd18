package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/worklog/internal/profile"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure worklog (re-run anytime to edit settings)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup()
	},
}

// runSetup runs the interactive setup wizard, using any existing profile
// as the defaults.
func runSetup() error {
	var existing *profile.Profile
	if profile.Exists() {
		p, err := profile.Load()
		if err == nil {
			existing = p
		}
	}

	prof, err := profile.RunSetup(existing)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := profile.Save(prof); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	fmt.Println("  ✓ Profile saved.")
	fmt.Println("  Run 'worklog sessions' in a repository to see your work sessions.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
