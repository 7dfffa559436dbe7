package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/99designs/keyring"

	"github.com/steipete/mogcli/internal/config"
	"github.com/steipete/mogcli/internal/outfmt"
)

type StatusCmd struct{}

type statusReport struct {
	Profile          string `json:"profile"`
	ConfigPath       string `json:"configPath"`
	ClientConfigured bool   `json:"clientConfigured"`
	Authorized       bool   `json:"authorized"`
	AuthPending      bool   `json:"authPending"`
}

// Run reports local state only. It never touches the network, so it works
// (and exits 0) even when the profile has no credential yet.
func (c *StatusCmd) Run(_ context.Context, flags *RootFlags) error {
	report := statusReport{Profile: flags.Profile}

	if path, err := config.Path(); err == nil {
		report.ConfigPath = path
	}

	if _, err := config.ReadClientCredentials(); err == nil {
		report.ClientConfigured = true
	}

	store, err := openSecretsStore()
	if err != nil {
		return err
	}

	if _, err := store.GetToken(flags.Profile); err == nil {
		report.Authorized = true
	} else if !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}

	if _, err := store.GetDeviceState(flags.Profile); err == nil {
		report.AuthPending = true
	} else if !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}

	return outfmt.Write(os.Stdout, outfmt.Success(report))
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(_ context.Context, flags *RootFlags) error {
	store, err := openSecretsStore()
	if err != nil {
		return err
	}

	if err := store.DeleteToken(flags.Profile); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}

	if err := store.DeleteDeviceState(flags.Profile); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}

	return outfmt.Write(os.Stdout, outfmt.Success(map[string]string{
		"profile": flags.Profile,
		"action":  "logged_out",
	}))
}
