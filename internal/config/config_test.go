package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "bor")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "bbbab")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("SERVER_PORT", "8080")
}

func TestLoadFromEnvironmentWithoutFile(t *testing.T) {
	req := require.New(t)
	setRequiredEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal("8080", cfg.ServerPort)
	req.Equal(1000, cfg.MaxMessageLength)
	req.Equal(1, cfg.GroupMinParticipants)
	req.Equal(10*time.Minute, cfg.MessageCacheTTL)
	req.False(cfg.CacheEnabled())
	req.Equal("host=localhost user=bor password=secret dbname=bbbab port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadFromFileAndEnvironmentOverride(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_HOST=db\nDB_USER=bor\nDB_PASSWORD=bor\nDB_NAME=bbbab\nDB_PORT=5432\n" +
		"SERVER_PORT=9000\nGROUP_MIN_PARTICIPANTS=2\nREDIS_ADDR=localhost:6379\n"
	req.NoError(os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadFrom(path)

	req.NoError(err)
	req.Equal("db", cfg.Host)
	req.Equal("9100", cfg.ServerPort)
	req.Equal(2, cfg.GroupMinParticipants)
	req.True(cfg.CacheEnabled())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_NAME", "")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	require.EqualError(t, err, "DB_NAME is required")
}

func TestLoadRejectsMessageLengthOutsideColumn(t *testing.T) {
	tests := []struct {
		name  string
		value string
		err   string
	}{
		{name: "zero", value: "0", err: "MAX_MESSAGE_LENGTH must be positive, got 0"},
		{name: "above column size", value: "1001", err: "MAX_MESSAGE_LENGTH must not exceed 1000, got 1001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("MAX_MESSAGE_LENGTH", tt.value)

			_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

			require.EqualError(t, err, tt.err)
		})
	}
}

func TestLoadAcceptsMessageLengthAtColumnSize(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_MESSAGE_LENGTH", "1000")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	require.Equal(t, 1000, cfg.MaxMessageLength)
}

func TestOrigins(t *testing.T) {
	cfg := Config{AllowedOrigins: " http://a.test , ,http://b.test"}
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}
