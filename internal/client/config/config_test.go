package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000", c.ServerURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
}

func TestLoadConfig(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"https://api.poshtyar.com","request_timeout":"5s"}`), 0o600))

	tests := []struct {
		name string
		args []string
		want Config
	}{
		{
			name: "defaults",
			args: []string{"poshtyar"},
			want: Config{ServerURL: "http://localhost:5000", RequestTimeout: 30 * time.Second},
		},
		{
			name: "json",
			args: []string{"poshtyar", "-c", path},
			want: Config{ServerURL: "https://api.poshtyar.com", RequestTimeout: 5 * time.Second},
		},
		{
			name: "flags win over json",
			args: []string{"poshtyar", "-config", path, "-a", "http://127.0.0.1:8080", "-t", "2"},
			want: Config{ServerURL: "http://127.0.0.1:8080", RequestTimeout: 2 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			got, err := LoadConfig()
			require.NoError(t, err)
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	os.Args = []string{"poshtyar", "-c", bad}
	_, err := LoadConfig()
	require.Error(t, err)

	os.Args = []string{"poshtyar", "-t", "never"}
	_, err = LoadConfig()
	require.Error(t, err)
}
