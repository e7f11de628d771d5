package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"http_addr":         ":8080",
		"database_dsn":      "postgres://x",
		"secret_key":        "json-secret",
		"session_ttl":       "2h",
		"otp_ttl":           "5m",
		"reset_token_ttl":   "30m",
		"encryption_key":    testEncryptionKey,
		"storage_backend":   "s3",
		"s3_bucket":         "docs",
		"mail_provider":     "smtp",
		"smtp_host":         "mail.example.com",
		"smtp_port":         465,
		"max_document_size": 1024,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "json-secret", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
		assert.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
		assert.Equal(t, testEncryptionKey, cfg.EncryptionKey)
		assert.Equal(t, "s3", cfg.StorageBackend)
		assert.Equal(t, "docs", cfg.S3Bucket)
		assert.Equal(t, "smtp", cfg.MailProvider)
		assert.Equal(t, "mail.example.com", cfg.SMTPHost)
		assert.Equal(t, 465, cfg.SMTPPort)
		assert.Equal(t, int64(1024), cfg.MaxDocumentSize)
	})

	t.Run("absent fields keep current values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"grpc_addr": ":9999"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := validConfig()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, ":9999", cfg.GRPCAddr)
		assert.Equal(t, ":5000", cfg.HTTPAddr)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})

	t.Run("no config and no flags leaves config alone", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := validConfig()
		want := *cfg
		require.NoError(t, parseJson(cfg))
		assert.Equal(t, want, *cfg)
	})

	t.Run("CONFIG env var is used as fallback", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("CONFIG", full)

		cfg := &Config{}
		require.NoError(t, parseJson(cfg))
		assert.Equal(t, ":8080", cfg.HTTPAddr)
	})

	t.Run("missing file", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}
		require.Error(t, parseJson(&Config{}))
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Error(t, parseJson(&Config{}))
	})
}
