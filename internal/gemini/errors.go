package gemini

import "errors"

var (
	// ErrMissingAPIKey indicates no Gemini API key was configured.
	ErrMissingAPIKey = errors.New("gemini api key not configured")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("gemini request timed out")

	// ErrEmptyResponse indicates the API answered without any candidate text.
	ErrEmptyResponse = errors.New("no summary returned by gemini")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("gemini retry attempts exhausted")
)

// Fallback renders err as inline report text so one failed day does not
// abort the whole report.
func Fallback(err error) string {
	if errors.Is(err, ErrEmptyResponse) {
		return "[No summary returned by Gemini API]"
	}
	return "[Gemini API error: " + err.Error() + "]"
}
