// Package profile manages the user's persistent worklog profile.
// The profile is stored at ~/.config/worklog/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	Name          string `json:"name"`
	DefaultFormat string `json:"default_format"` // "markdown" | "json"
	ReportsDir    string `json:"reports_dir"`    // where reports are written
	GapMinutes    int    `json:"gap_minutes"`    // 0 leaves the configured threshold alone
}

// profilePath returns the path to the profile file.
func profilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.json"), nil
}

// ConfigDir returns the worklog config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "worklog"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found, run 'worklog setup' to configure: %w", err)
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// answers holds the raw form values before conversion.
type answers struct {
	name       string
	format     string
	reportsDir string
	gap        string
}

func newAnswers(p *Profile) *answers {
	a := &answers{
		name:       p.Name,
		format:     p.DefaultFormat,
		reportsDir: p.ReportsDir,
	}
	if a.format != "json" {
		a.format = "markdown"
	}
	if p.GapMinutes > 0 {
		a.gap = strconv.Itoa(p.GapMinutes)
	}
	return a
}

func (a *answers) profile() *Profile {
	prof := &Profile{
		Name:          strings.TrimSpace(a.name),
		DefaultFormat: a.format,
		ReportsDir:    strings.TrimSpace(a.reportsDir),
	}
	if prof.ReportsDir == "" {
		prof.ReportsDir = "reports"
	}
	if v, err := strconv.Atoi(strings.TrimSpace(a.gap)); err == nil && v > 0 {
		prof.GapMinutes = v
	}
	return prof
}

// validateGap accepts empty or a positive number of minutes.
func validateGap(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number of minutes")
	}
	return nil
}

func setupForm(a *answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your name (shown in reports)").
				Value(&a.name),
			huh.NewSelect[string]().
				Title("Default report format").
				Options(
					huh.NewOption("Markdown", "markdown"),
					huh.NewOption("JSON", "json"),
				).
				Value(&a.format),
			huh.NewInput().
				Title("Reports directory").
				Placeholder("reports").
				Value(&a.reportsDir),
			huh.NewInput().
				Title("Session gap threshold in minutes (blank for default)").
				Placeholder("30").
				Value(&a.gap).
				Validate(validateGap),
		),
	).WithShowHelp(false)
}

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 3).
	Bold(true)

// RunSetup runs the interactive setup wizard and returns the resulting profile.
// If existing is non-nil, it is used as the default for each prompt (edit mode).
func RunSetup(existing *Profile) (*Profile, error) {
	prof := &Profile{DefaultFormat: "markdown", ReportsDir: "reports"}
	if existing != nil {
		*prof = *existing
	}

	fmt.Println()
	fmt.Println(bannerStyle.Render("worklog setup"))
	fmt.Println()

	a := newAnswers(prof)
	if err := setupForm(a).Run(); err != nil {
		return nil, err
	}
	return a.profile(), nil
}
