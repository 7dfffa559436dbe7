package secrets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/steipete/mogcli/internal/config"
)

const serviceName = "mogcli"

const keyringPasswordEnv = "MOG_KEYRING_PASSWORD" //nolint:gosec // env var name, not a credential

// Token is a cached credential for one profile. Scopes records what the
// grant was authorized for so narrower grants can be detected and widened.
type Token struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// DeviceState is an in-flight device-code authorization awaiting user
// approval. It survives across invocations so a later run can poll.
type DeviceState struct {
	DeviceCode      string    `json:"deviceCode"`
	UserCode        string    `json:"userCode"`
	VerificationURI string    `json:"verificationUri"`
	Interval        int64     `json:"interval,omitempty"`
	Expiry          time.Time `json:"expiry,omitempty"`
	Scopes          []string  `json:"scopes,omitempty"`
}

type Store interface {
	GetToken(profile string) (Token, error)
	SetToken(profile string, tok Token) error
	DeleteToken(profile string) error
	GetDeviceState(profile string) (DeviceState, error)
	SetDeviceState(profile string, st DeviceState) error
	DeleteDeviceState(profile string) error
}

type keyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore wraps an opened keyring. Tests pass keyring.NewArrayKeyring.
func NewKeyringStore(ring keyring.Keyring) Store {
	return &keyringStore{ring: ring}
}

// OpenDefault opens the store with the configured backend
// (auto, keychain, or file).
func OpenDefault() (Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}

	kcfg := keyring.Config{
		ServiceName:      serviceName,
		FileDir:          filepath.Join(dataDir, "keyring"),
		FilePasswordFunc: filePassword,
	}

	switch strings.ToLower(strings.TrimSpace(cfg.KeyringBackend)) {
	case "", "auto":
		// Let the library pick the platform backend.
	case "keychain":
		kcfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend}
	case "file":
		kcfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	default:
		return nil, fmt.Errorf("invalid keyring backend %q (expected auto, keychain, or file)", cfg.KeyringBackend)
	}

	ring, err := keyring.Open(kcfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	return NewKeyringStore(ring), nil
}

func filePassword(prompt string) (string, error) {
	if v := os.Getenv(keyringPasswordEnv); v != "" {
		return v, nil
	}

	return keyring.TerminalPrompt(prompt)
}

func tokenKey(profile string) string  { return "token/" + profile }
func deviceKey(profile string) string { return "device/" + profile }

func (s *keyringStore) GetToken(profile string) (Token, error) {
	var tok Token
	if err := s.getJSON(tokenKey(profile), &tok); err != nil {
		return Token{}, err
	}

	return tok, nil
}

func (s *keyringStore) SetToken(profile string, tok Token) error {
	return s.setJSON(tokenKey(profile), "token for "+profile, tok)
}

func (s *keyringStore) DeleteToken(profile string) error {
	return s.ring.Remove(tokenKey(profile))
}

func (s *keyringStore) GetDeviceState(profile string) (DeviceState, error) {
	var st DeviceState
	if err := s.getJSON(deviceKey(profile), &st); err != nil {
		return DeviceState{}, err
	}

	return st, nil
}

func (s *keyringStore) SetDeviceState(profile string, st DeviceState) error {
	return s.setJSON(deviceKey(profile), "pending authorization for "+profile, st)
}

func (s *keyringStore) DeleteDeviceState(profile string) error {
	return s.ring.Remove(deviceKey(profile))
}

func (s *keyringStore) getJSON(key string, out any) error {
	item, err := s.ring.Get(key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(item.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}

	return nil
}

func (s *keyringStore) setJSON(key, label string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.ring.Set(keyring.Item{Key: key, Label: label, Data: data}); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}

	return nil
}
