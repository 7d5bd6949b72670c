package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdoc/internal/errors"
	"tsdoc/internal/options"
)

func TestFormatError(t *testing.T) {
	err := errors.WithHint(errors.Wrap(errors.ErrNoInputFiles, "expand"), "check entryPoints")
	assert.Equal(t, "expand: no input files\nhint: check entryPoints", formatError(err))
	assert.Equal(t, "plain", formatError(errors.New("plain")))
}

func TestHistory_RequiresStore(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TSDOC_STORE", "")

	rootCmd.SetArgs([]string{"history"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run history configured")
	assert.Contains(t, errors.FlattenHints(err), "--"+options.Store)
}
