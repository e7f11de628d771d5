package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want func() *Config
	}{
		{
			name: "no flags keeps defaults",
			args: []string{"testbin"},
			want: validConfig,
		},
		{
			name: "all flags",
			args: []string{
				"testbin",
				"-a", ":8000", "-g", ":9000", "-d", "dsn", "-s", "secret",
				"-k", "00" + testEncryptionKey[2:], "-e", "production", "-b", "s3",
				"-u", "/tmp/up", "-m", "smtp", "-l", "debug", "-t", "90",
			},
			want: func() *Config {
				c := validConfig()
				c.HTTPAddr = ":8000"
				c.GRPCAddr = ":9000"
				c.DatabaseDSN = "dsn"
				c.SecretKey = "secret"
				c.EncryptionKey = "00" + testEncryptionKey[2:]
				c.Environment = EnvProduction
				c.StorageBackend = "s3"
				c.UploadDir = "/tmp/up"
				c.MailProvider = "smtp"
				c.LogLevel = "debug"
				c.SessionTTL = 90 * time.Minute
				return c
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"testbin", "-c", "cfg.json", "-x", "1", "-a=:1234"},
			want: func() *Config {
				c := validConfig()
				c.HTTPAddr = ":1234"
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			got := validConfig()
			require.NoError(t, parseFlags(got))

			if diff := cmp.Diff(tt.want(), got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_parseFlags_BadValue(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-t", "soon"}
	require.Error(t, parseFlags(validConfig()))
}
