package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCheck_PrintsSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: sqlite\ncache:\n  driver: memory\n"), 0o600))

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.Writer = &out

	err := cmd.Run(context.Background(), []string{"recipectl", "--config", path, "config", "check"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "database:    sqlite")
	assert.Contains(t, out.String(), "cache:       memory")
}

func TestMigrate_RejectsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: sqlite\n"), 0o600))

	err := rootCmd().Run(context.Background(), []string{"recipectl", "--config", path, "migrate", "up"})

	assert.ErrorContains(t, err, "postgres")
}
