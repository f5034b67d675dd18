package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// GeminiKeyName is the variable holding the Gemini API key.
const GeminiKeyName = "GEMINI_API_KEY"

// Secrets holds credentials resolved once at startup and passed explicitly
// to the components that need them.
type Secrets struct {
	GeminiAPIKey string
	// Source records where the key came from: ".env", "env" or "".
	Source string
}

// HasGeminiKey reports whether a Gemini API key is available.
func (s Secrets) HasGeminiKey() bool {
	return s.GeminiAPIKey != ""
}

// LoadSecrets reads GEMINI_API_KEY from dir/.env first, then from the
// process environment. A missing .env file is not an error.
func LoadSecrets(dir string) (Secrets, error) {
	vals, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Secrets{}, &ParseError{Path: filepath.Join(dir, ".env"), Err: err}
	}
	if v := strings.TrimSpace(vals[GeminiKeyName]); v != "" {
		return Secrets{GeminiAPIKey: v, Source: ".env"}, nil
	}
	if v := strings.TrimSpace(os.Getenv(GeminiKeyName)); v != "" {
		return Secrets{GeminiAPIKey: v, Source: "env"}, nil
	}
	return Secrets{}, nil
}
