package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEncryptionKey = strings.Repeat("ab", 32)

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.EncryptionKey = testEncryptionKey
	return c
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, EnvDevelopment, c.Environment)
	assert.Equal(t, "https://demo.poshtyar.com", c.CORSOrigin)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 10*time.Minute, c.ResetTokenTTL)
	assert.Equal(t, 10*time.Minute, c.OTPTTL)
	assert.Equal(t, "disk", c.StorageBackend)
	assert.Equal(t, int64(5<<20), c.MaxAvatarSize)
	assert.Equal(t, int64(10<<20), c.MaxDocumentSize)
	assert.Equal(t, "log", c.MailProvider)
	assert.Equal(t, "support@poshtyar.com", c.MailFromAddress)
	assert.Empty(t, c.EncryptionKey)
}

func TestLoadConfig_LayersInOrder(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"http_addr":    ":7000",
		"database_dsn": "from-json",
		"secret_key":   "json-secret",
	})
	t.Setenv("CONFIG", "")
	t.Setenv("POSHTYAR_DATABASE_DSN", "from-env")
	t.Setenv("POSHTYAR_JWT_SECRET", "env-secret")

	os.Args = []string{"testbin", "-c", path, "-s", "flag-secret"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "from-env", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
}

func TestLoadConfig_BadJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", nil)
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))
	os.Args = []string{"testbin", "-config", path}

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults with key", mutate: func(c *Config) {}},
		{
			name:    "missing encryption key",
			mutate:  func(c *Config) { c.EncryptionKey = "" },
			wantErr: "encryption key",
		},
		{
			name:    "short encryption key",
			mutate:  func(c *Config) { c.EncryptionKey = "abcd" },
			wantErr: "encryption key",
		},
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.SecretKey = "" },
			wantErr: "jwt secret is required",
		},
		{
			name: "dev secret in production",
			mutate: func(c *Config) {
				c.Environment = EnvProduction
				c.MailProvider = "brevo"
				c.BrevoAPIKey = "k"
			},
			wantErr: "must be set in production",
		},
		{
			name: "log mailer in production",
			mutate: func(c *Config) {
				c.Environment = EnvProduction
				c.SecretKey = "prod-secret"
			},
			wantErr: "not allowed in production",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StorageBackend = "ftp" },
			wantErr: "unknown storage backend",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.StorageBackend = "s3"; c.S3Bucket = "" },
			wantErr: "s3 bucket is required",
		},
		{
			name:    "smtp without host",
			mutate:  func(c *Config) { c.MailProvider = "smtp" },
			wantErr: "smtp host is required",
		},
		{
			name:    "brevo without key",
			mutate:  func(c *Config) { c.MailProvider = "brevo" },
			wantErr: "brevo api key is required",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Environment = "staging" },
			wantErr: "unknown environment",
		},
		{
			name:    "zero otp ttl",
			mutate:  func(c *Config) { c.OTPTTL = 0 },
			wantErr: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
