package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ErrorIsReturnedNotPrinted(t *testing.T) {
	t.Setenv(envConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, ErrLoadConfig)
	assert.Empty(t, stderr.String())
	assert.Empty(t, stdout.String())
}
