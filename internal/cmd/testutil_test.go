package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"github.com/steipete/mogcli/internal/graph"
	"github.com/steipete/mogcli/internal/msauth"
	"github.com/steipete/mogcli/internal/secrets"
	"github.com/steipete/mogcli/internal/timeparse"
)

// fakeService records calls so tests can assert on what reached the
// remote layer without any network.
type fakeService struct {
	listWindow graph.Window
	listTop    int
	listCalls  int
	events     []graph.Event

	getID string
	event *graph.Event

	searchQuery string
	searchTop   int

	created *graph.EventDraft

	err error
}

func (f *fakeService) ListEvents(_ context.Context, w graph.Window, top int) ([]graph.Event, error) {
	f.listCalls++
	f.listWindow = w
	f.listTop = top

	return f.events, f.err
}

func (f *fakeService) GetEvent(_ context.Context, id string) (*graph.Event, error) {
	f.getID = id
	if f.err != nil {
		return nil, f.err
	}
	if f.event != nil {
		return f.event, nil
	}

	return &graph.Event{ID: id}, nil
}

func (f *fakeService) SearchEvents(_ context.Context, query string, top int) ([]graph.Event, error) {
	f.searchQuery = query
	f.searchTop = top

	return f.events, f.err
}

func (f *fakeService) CreateEvent(_ context.Context, draft graph.EventDraft) (*graph.Event, error) {
	f.created = &draft
	if f.err != nil {
		return nil, f.err
	}

	return &graph.Event{ID: "created1", Subject: draft.Subject}, nil
}

// stubAuth replaces the auth gate and returns a counter of gate calls.
func stubAuth(t *testing.T, grant msauth.Grant, err error) *int {
	t.Helper()

	orig := ensureAuth
	t.Cleanup(func() { ensureAuth = orig })

	calls := new(int)
	ensureAuth = func(context.Context, string, []string) (msauth.Grant, error) {
		*calls++
		return grant, err
	}

	return calls
}

func stubService(t *testing.T, svc calendarService) {
	t.Helper()

	orig := newCalendarService
	t.Cleanup(func() { newCalendarService = orig })

	newCalendarService = func(msauth.Grant) calendarService { return svc }
}

func stubNow(t *testing.T, now time.Time) {
	t.Helper()

	orig := timeNow
	t.Cleanup(func() { timeNow = orig })

	timeNow = func() time.Time { return now }
}

// forbidResolve fails the test if date resolution runs at all. Used to pin
// the ordering: validation and the auth gate come first.
func forbidResolve(t *testing.T) {
	t.Helper()

	orig := resolveExpr
	t.Cleanup(func() { resolveExpr = orig })

	resolveExpr = func(expr string, _ time.Time) (time.Time, error) {
		t.Errorf("date expression %q resolved before the gate succeeded", expr)
		return time.Time{}, timeparse.ErrInvalidDateExpr
	}
}

func stubStore(t *testing.T, store secrets.Store) {
	t.Helper()

	orig := openSecretsStore
	t.Cleanup(func() { openSecretsStore = orig })

	openSecretsStore = func() (secrets.Store, error) { return store, nil }
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig
	b, _ := io.ReadAll(r)
	_ = r.Close()
	return string(b)
}

func runKong(t *testing.T, cmd any, args []string, ctx context.Context, flags *RootFlags) (err error) {
	t.Helper()

	parser, err := kong.New(
		cmd,
		kong.Writers(io.Discard, io.Discard),
		kong.Exit(func(code int) { panic(exitPanic{code: code}) }),
	)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if ep, ok := r.(exitPanic); ok {
				if ep.code == 0 {
					err = nil
					return
				}
				err = &ExitError{Code: ep.code, Err: errors.New("exited")}
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	kctx.BindTo(ctx, (*context.Context)(nil))

	if flags == nil {
		flags = &RootFlags{Profile: "default"}
	}
	kctx.Bind(flags)

	return kctx.Run()
}
