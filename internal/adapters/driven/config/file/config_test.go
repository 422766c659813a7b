package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultCallbackPort, cfg.CallbackPort)
	assert.Equal(t, DefaultStorage, cfg.Storage)
	assert.Equal(t, DefaultScopes, cfg.Scopes)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "credentials"), cfg.CredentialsDir)
	assert.Equal(t, "http://localhost:8080/callback", cfg.RedirectURI())
	assert.Equal(t, filepath.Join(cfg.DataDir, "accounts.json"), cfg.AccountsFile())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
client_id = "client-123"
client_secret = "secret-456"
callback_port = 9090
storage = "sqlite"
data_dir = "/tmp/gsuite-test"
scopes = ["openid", "https://mail.google.com/"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "client-123", cfg.ClientID)
	assert.Equal(t, "secret-456", cfg.ClientSecret)
	assert.Equal(t, 9090, cfg.CallbackPort)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, []string{"openid", "https://mail.google.com/"}, cfg.Scopes)
	assert.Equal(t, "http://localhost:9090/callback", cfg.RedirectURI())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
client_id = "client-123"
client_secret = "secret-456"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultCallbackPort, cfg.CallbackPort)
	assert.Equal(t, DefaultStorage, cfg.Storage)
	assert.Equal(t, DefaultScopes, cfg.Scopes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `client_id = [unclosed`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing client credentials",
			mutate:  func(c *Config) { c.ClientID = "" },
			wantErr: "client_id",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.CallbackPort = 70000 },
			wantErr: "callback_port",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage = "redis" },
			wantErr: "storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ClientID = "id"
			cfg.ClientSecret = "secret"
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
