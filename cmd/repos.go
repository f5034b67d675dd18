package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/worklog/internal/repos"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Manage the remembered repositories",
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := repos.NewStore()
		if err != nil {
			return err
		}
		list, err := store.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cmd.Println("no repositories remembered")
			return nil
		}
		for i, r := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, r)
		}
		return nil
	},
}

var reposAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Remember a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := repos.NewStore()
		if err != nil {
			return err
		}
		abs, err := store.Add(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", abs)
		return nil
	},
}

var reposRemoveCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Forget a repository",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := repos.NewStore()
		if err != nil {
			return err
		}
		if err := store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

func init() {
	reposCmd.AddCommand(reposListCmd, reposAddCmd, reposRemoveCmd)
	rootCmd.AddCommand(reposCmd)
}
