package report

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidReport is wrapped by every parse failure.
var ErrInvalidReport = errors.New("not a valid worklog report")

// Parser deserializes a report file back into structured data.
type Parser interface {
	Parse(data []byte) (*WorkReport, error)
}

// JSONParser parses a JSON-encoded WorkReport.
type JSONParser struct{}

func (JSONParser) Parse(data []byte) (*WorkReport, error) {
	var r WorkReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	return &r, nil
}

// MarkdownParser parses a Markdown-rendered WorkReport by extracting the
// embedded base64 JSON payload from the sentinel comments.
type MarkdownParser struct{}

func (MarkdownParser) Parse(data []byte) (*WorkReport, error) {
	content := string(data)

	if !strings.Contains(content, versionSentinel) {
		return nil, fmt.Errorf("%w: missing version sentinel", ErrInvalidReport)
	}

	start := strings.Index(content, dataPrefix)
	if start == -1 {
		return nil, fmt.Errorf("%w: missing data payload", ErrInvalidReport)
	}
	start += len(dataPrefix)
	end := strings.Index(content[start:], dataSuffix)
	if end == -1 {
		return nil, fmt.Errorf("%w: malformed data payload", ErrInvalidReport)
	}
	encoded := content[start : start+end]

	jsonBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupted base64 payload: %v", ErrInvalidReport, err)
	}

	var r WorkReport
	if err := json.Unmarshal(jsonBytes, &r); err != nil {
		return nil, fmt.Errorf("%w: failed to parse embedded JSON: %v", ErrInvalidReport, err)
	}
	return &r, nil
}

// ParserFor picks a parser from the file extension. Anything that is not
// .json is treated as Markdown.
func ParserFor(path string) Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONParser{}
	}
	return MarkdownParser{}
}
