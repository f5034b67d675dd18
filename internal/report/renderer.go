package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer serializes a WorkReport to bytes.
type Renderer interface {
	Render(r *WorkReport) ([]byte, error)
	Ext() string
}

// JSONRenderer renders a WorkReport as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(r *WorkReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func (JSONRenderer) Ext() string { return ".json" }

const (
	versionSentinel = "<!-- worklog-report-version: 1 -->"
	dataPrefix      = "<!-- worklog-data: "
	dataSuffix      = " -->"
)

// MarkdownRenderer renders a WorkReport as human-readable Markdown with
// an embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Ext() string { return ".md" }

func (MarkdownRenderer) Render(r *WorkReport) ([]byte, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder

	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	fmt.Fprintf(&sb, "# Work Summary for %s (%s)\n\n", r.Repo, r.Range)

	for _, d := range r.Days {
		fmt.Fprintf(&sb, "## Date: %s\n", d.Date)
		fmt.Fprintf(&sb, "**Summary:** %s\n\n", d.Summary)
		sb.WriteString("**Messages:**\n")
		for _, msg := range d.Messages {
			fmt.Fprintf(&sb, "- %s\n", msg)
		}
		sb.WriteString("\n")
	}

	if s := r.Sessions; s != nil {
		sb.WriteString("## Sessions\n\n")
		fmt.Fprintf(&sb, "- Gap threshold: %d minutes\n", s.GapMinutes)
		fmt.Fprintf(&sb, "- Sessions: %d\n", s.Count)
		fmt.Fprintf(&sb, "- Total active time: %s\n", s.Total)
		if s.Longest != "" {
			fmt.Fprintf(&sb, "- Longest session: %s\n", s.Longest)
		}
		fmt.Fprintf(&sb, "- Latest session: %s\n", s.CurrentStreak)
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// ForFormat returns the renderer for a configured format name.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return MarkdownRenderer{}, nil
	case "json":
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want markdown or json)", format)
	}
}
