// Package file loads the manager configuration from a TOML file. The
// resulting Config struct is passed explicitly into the components that
// need it; nothing reads ambient environment state, so tests can run each
// manager against isolated storage.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default values applied when the config file omits a field.
const (
	// DefaultCallbackPort is the fixed local port the provider redirects to.
	DefaultCallbackPort = 8080

	// DefaultStorage selects the per-account JSON file backend.
	DefaultStorage = "file"

	defaultDirName = ".gsuite-mcp"
)

// DefaultScopes are the statically configured scopes requested for every
// account.
var DefaultScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://mail.google.com/",
	"https://www.googleapis.com/auth/analytics.readonly",
}

// Config holds everything the account manager needs at construction time.
type Config struct {
	// ClientID and ClientSecret identify the OAuth application.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`

	// Scopes are the requested scopes; defaults to DefaultScopes.
	Scopes []string `toml:"scopes"`

	// CallbackPort is the fixed local redirect port.
	CallbackPort int `toml:"callback_port"`

	// Storage selects the store backend: "file", "sqlite" or "keyring".
	Storage string `toml:"storage"`

	// DataDir is the root for registry and sqlite data.
	DataDir string `toml:"data_dir"`

	// CredentialsDir is where the file backend keeps credential records.
	CredentialsDir string `toml:"credentials_dir"`
}

// Load reads the configuration from a TOML file and applies defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no OAuth
// application set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Validate checks that the configuration can drive an authorization flow.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("client_id and client_secret are required")
	}
	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("callback_port %d out of range", c.CallbackPort)
	}
	switch c.Storage {
	case "file", "sqlite", "keyring":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}

// RedirectURI returns the redirect target for the configured callback port.
func (c *Config) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", c.CallbackPort)
}

// AccountsFile returns the path of the registry file for the file backend.
func (c *Config) AccountsFile() string {
	return filepath.Join(c.DataDir, "accounts.json")
}

func (c *Config) applyDefaults() {
	if len(c.Scopes) == 0 {
		c.Scopes = append([]string(nil), DefaultScopes...)
	}
	if c.CallbackPort == 0 {
		c.CallbackPort = DefaultCallbackPort
	}
	if c.Storage == "" {
		c.Storage = DefaultStorage
	}
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, defaultDirName)
		}
	}
	if c.CredentialsDir == "" {
		c.CredentialsDir = filepath.Join(c.DataDir, "credentials")
	}
}
