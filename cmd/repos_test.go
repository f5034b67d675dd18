package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/worklog/internal/repos"
)

func TestReposAddListRemove(t *testing.T) {
	setupEnv(t, time.Now())
	dir := t.TempDir()

	out, err := executeCommand(rootCmd, "repos", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no repositories remembered")

	out, err = executeCommand(rootCmd, "repos", "add", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "added "+dir)

	out, err = executeCommand(rootCmd, "repos", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1. "+dir)

	_, err = executeCommand(rootCmd, "repos", "remove", dir)
	require.NoError(t, err)

	_, err = executeCommand(rootCmd, "repos", "rm", dir)
	assert.ErrorIs(t, err, repos.ErrUnknownRepo)
}
