package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/steipete/mogcli/internal/graph"
	"github.com/steipete/mogcli/internal/msauth"
	"github.com/steipete/mogcli/internal/secrets"
	"github.com/steipete/mogcli/internal/timeparse"
)

// Required permission scopes per command family. Read-only commands never
// request write access, so a read-only grant stays read-only until create
// asks for more.
var (
	readScopes  = []string{msauth.ScopeUserRead, msauth.ScopeCalendarsRead}
	writeScopes = []string{msauth.ScopeUserRead, msauth.ScopeCalendarsReadWrite}
)

type calendarService interface {
	ListEvents(ctx context.Context, w graph.Window, top int) ([]graph.Event, error)
	GetEvent(ctx context.Context, id string) (*graph.Event, error)
	SearchEvents(ctx context.Context, query string, top int) ([]graph.Event, error)
	CreateEvent(ctx context.Context, draft graph.EventDraft) (*graph.Event, error)
}

// Seams for tests.
var (
	ensureAuth         = msauth.EnsureAuth
	newCalendarService = func(grant msauth.Grant) calendarService { return graph.NewClient(grant.AccessToken) }
	openSecretsStore   = secrets.OpenDefault
	resolveExpr        = timeparse.Resolve
	timeNow            = time.Now
)

// authedService runs the auth gate and wraps the resulting grant. Nothing
// else runs until the gate has succeeded, date resolution included.
func authedService(ctx context.Context, flags *RootFlags, scopes []string) (calendarService, error) {
	grant, err := ensureAuth(ctx, flags.Profile, scopes)
	if err != nil {
		return nil, err
	}

	return newCalendarService(grant), nil
}

// splitAttendees parses a comma-separated attendee list: split, trim, drop
// empties. Each survivor becomes a required attendee.
func splitAttendees(csv string) []string {
	var out []string

	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
