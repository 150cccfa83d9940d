// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/platform/config"
	"github.com/taibuivan/biblioteca/internal/platform/database"
)

func TestLoadFile_Defaults(t *testing.T) {
	for _, name := range []string{"DATABASE_DRIVER", "DATABASE_URL", "REDIS_URL", "CACHE_TTL", "EXTRA_ORIGINS", "MIGRATE_ON_START"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, database.Options{Driver: database.DriverSQLite, URL: "./data/biblioteca.db"}, cfg.Database())
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.Origins())
}

/*
TestLoadFile_DotEnv verifies that a dotenv file fills unset variables but never
overrides the real environment.
*/
func TestLoadFile_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "REDIS_URL=redis://localhost:6379/0\nEXTRA_ORIGINS=https://a.example, https://b.example\nCACHE_TTL=30s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CACHE_TTL", "1m")
	for _, name := range []string{"REDIS_URL", "EXTRA_ORIGINS"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoadFile_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "duckdb")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
