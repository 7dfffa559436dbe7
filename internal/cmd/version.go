package cmd

import (
	"context"
	"os"

	"github.com/steipete/mogcli/internal/outfmt"
)

// Overridden at build time via -ldflags "-X ...cmd.version=v1.2.3".
var version = "dev"

func VersionString() string { return version }

type VersionCmd struct{}

func (c *VersionCmd) Run(_ context.Context) error {
	return outfmt.Write(os.Stdout, outfmt.Success(map[string]string{
		"version": VersionString(),
	}))
}
