package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/worklog/internal/report"
	"github.com/fakeyudi/worklog/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a work report file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		r, err := report.ParserFor(path).Parse(data)
		if err != nil {
			return err
		}

		if plainOutput || !interactive() {
			printReport(cmd.OutOrStdout(), r)
			return nil
		}
		return tui.Run(r, path)
	},
}

// printReport writes a plain-text rendition of r.
func printReport(w io.Writer, r *report.WorkReport) {
	fmt.Fprintln(w, "## Summary")
	fmt.Fprintf(w, "  Repository: %s\n", r.Repo)
	fmt.Fprintf(w, "  Range:      %s\n", r.Range)
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "  Generated:  %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if r.Author != "" {
		fmt.Fprintf(w, "  Author:     %s\n", r.Author)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Days")
	if len(r.Days) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, d := range r.Days {
		fmt.Fprintf(w, "  ### %s\n", d.Date)
		fmt.Fprintln(w, indent(strings.TrimSpace(d.Summary), "    "))
		fmt.Fprintln(w, "    Messages:")
		for _, m := range d.Messages {
			fmt.Fprintf(w, "      - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Tasks")
	points := report.AllPoints(r)
	if len(points) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, p := range points {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Sessions")
	if s := r.Sessions; s == nil {
		fmt.Fprintln(w, "  (none)")
	} else {
		fmt.Fprintf(w, "  Gap threshold: %d minutes\n", s.GapMinutes)
		fmt.Fprintf(w, "  Sessions:      %d\n", s.Count)
		fmt.Fprintf(w, "  Total active:  %s\n", s.Total)
		if s.Longest != "" {
			fmt.Fprintf(w, "  Longest:       %s\n", s.Longest)
		}
		fmt.Fprintf(w, "  Latest:        %s\n", s.CurrentStreak)
	}
	fmt.Fprintln(w)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
