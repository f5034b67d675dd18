package gitlog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	c, err := ParseLine("0123abcd|2024-05-02T17:04:05-07:00|Grace Hopper|feat: add parser")
	require.NoError(t, err)
	assert.Equal(t, "0123abcd", c.Hash)
	assert.Equal(t, "Grace Hopper", c.Author)
	assert.Equal(t, "feat: add parser", c.Subject)
	assert.True(t, c.When.Equal(time.Date(2024, 5, 3, 0, 4, 5, 0, time.UTC)))
	_, offset := c.When.Zone()
	assert.Equal(t, -7*60*60, offset, "timezone is kept")
}

func TestParseLineErrors(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"too few fields", "abc|2024-05-02T17:04:05Z"},
		{"empty hash", "|2024-05-02T17:04:05Z|a|s"},
		{"short date", "abc|2024-05-02|a|s"},
		{"garbage date", "abc|yesterday|a|s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLine(tc.line)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tc.line, perr.Line)
		})
	}
}

func TestParseLogSkipsBadLines(t *testing.T) {
	out := "a|2024-01-01T10:00:00Z|x|one\r\n\nbad\nb|2024-01-01T09:00:00Z|x|two\n"
	commits, errs := ParseLog(out)
	require.Len(t, commits, 2)
	assert.Len(t, errs, 1)
	assert.Equal(t, "one", commits[0].Subject)
}

func TestTimestampsAreAscending(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	commits := []Commit{{When: t1.Add(2 * time.Hour)}, {When: t1}, {When: t1.Add(time.Hour)}}

	ts := Timestamps(commits)
	require.Len(t, ts, 3)
	assert.True(t, ts[0].Equal(t1))
	assert.True(t, ts[2].Equal(t1.Add(2*time.Hour)))
	assert.True(t, commits[0].When.Equal(t1.Add(2*time.Hour)), "input is not modified")
}
