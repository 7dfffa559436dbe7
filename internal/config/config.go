package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const appDirName = "mog"

// Config is the on-disk configuration (JSON5 so hand-edited files may carry
// comments and trailing commas).
type Config struct {
	ClientID       string `json:"clientId"`
	TenantID       string `json:"tenantId"`
	KeyringBackend string `json:"keyringBackend"`
	DefaultProfile string `json:"defaultProfile"`
}

// ClientCredentials identifies the OAuth application used for the device flow.
type ClientCredentials struct {
	ClientID string
	TenantID string
}

type CredentialsMissingError struct {
	Path string
}

func (e *CredentialsMissingError) Error() string {
	return fmt.Sprintf("no OAuth client configured; set clientId in %s or MOG_CLIENT_ID", e.Path)
}

// Path returns the config file location under the user config dir.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}

	return filepath.Join(dir, appDirName, "config.json5"), nil
}

// DataDir returns the directory holding mutable app state (file keyring).
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}

	return filepath.Join(dir, appDirName), nil
}

// Read loads the config file. A missing file yields a zero Config.
func Read() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads the config file and applies environment overrides.
// MOG_CLIENT_ID, MOG_TENANT_ID and MOG_KEYRING_BACKEND win over the file.
func Load() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(os.Getenv("MOG_CLIENT_ID")); v != "" {
		cfg.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv("MOG_TENANT_ID")); v != "" {
		cfg.TenantID = v
	}
	if v := strings.TrimSpace(os.Getenv("MOG_KEYRING_BACKEND")); v != "" {
		cfg.KeyringBackend = v
	}

	return cfg, nil
}

// ReadClientCredentials resolves the OAuth client for auth flows.
func ReadClientCredentials() (ClientCredentials, error) {
	cfg, err := Load()
	if err != nil {
		return ClientCredentials{}, err
	}

	if strings.TrimSpace(cfg.ClientID) == "" {
		path, _ := Path()
		return ClientCredentials{}, &CredentialsMissingError{Path: path}
	}

	return ClientCredentials{ClientID: cfg.ClientID, TenantID: cfg.TenantID}, nil
}

// DefaultProfile picks the profile used when --profile is not given:
// MOG_PROFILE, then the config file, then "default".
func DefaultProfile() string {
	if v := strings.TrimSpace(os.Getenv("MOG_PROFILE")); v != "" {
		return v
	}

	if cfg, err := Read(); err == nil && strings.TrimSpace(cfg.DefaultProfile) != "" {
		return cfg.DefaultProfile
	}

	return "default"
}
