package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.False(t, Exists())

	want := &Profile{Name: "Ada", DefaultFormat: "json", ReportsDir: "out", GapMinutes: 45}
	require.NoError(t, Save(want))
	assert.True(t, Exists())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "worklog", filepath.Base(dir))
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load()
	assert.ErrorContains(t, err, "worklog setup")
}

func TestAnswersConversion(t *testing.T) {
	a := newAnswers(&Profile{Name: "Ada", DefaultFormat: "yaml", GapMinutes: 20})
	assert.Equal(t, "markdown", a.format, "unknown formats fall back to markdown")
	assert.Equal(t, "20", a.gap)

	a.name = "  Ada Lovelace "
	a.reportsDir = ""
	a.gap = " 90 "
	p := a.profile()
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "reports", p.ReportsDir)
	assert.Equal(t, 90, p.GapMinutes)

	a.gap = ""
	assert.Zero(t, a.profile().GapMinutes)
}

func TestValidateGap(t *testing.T) {
	assert.NoError(t, validateGap(""))
	assert.NoError(t, validateGap("15"))
	assert.Error(t, validateGap("0"))
	assert.Error(t, validateGap("-5"))
	assert.Error(t, validateGap("soon"))
}
