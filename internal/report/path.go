package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Path returns <reportsDir>/<repo>/<label><ext>.
func Path(reportsDir, repo, label, ext string) string {
	return filepath.Join(reportsDir, repo, label+ext)
}

// Write renders r and writes it under reportsDir, creating directories as
// needed. It returns the path written.
func Write(reportsDir string, r *WorkReport, renderer Renderer) (string, error) {
	data, err := renderer.Render(r)
	if err != nil {
		return "", err
	}
	path := Path(reportsDir, r.Repo, r.Range, renderer.Ext())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
