package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/steipete/mogcli/internal/config"
	"github.com/steipete/mogcli/internal/msauth"
	"github.com/steipete/mogcli/internal/outfmt"
	"github.com/steipete/mogcli/internal/ui"
)

type RootFlags struct {
	Profile string `help:"Named auth profile" default:"${profile}"`
	Verbose bool   `help:"Enable verbose logging" short:"v"`
}

type CLI struct {
	RootFlags `embed:""`

	Version kong.VersionFlag `help:"Print version and exit"`

	List   ListCmd   `cmd:"" default:"withargs" help:"List events in a window (default command)"`
	Today  TodayCmd  `cmd:"" help:"List today's events"`
	Week   WeekCmd   `cmd:"" help:"List events for the next seven days"`
	View   ViewCmd   `cmd:"" aliases:"get,show" help:"Show one event by id"`
	Search SearchCmd `cmd:"" aliases:"find" help:"Search events by subject"`
	Create CreateCmd `cmd:"" aliases:"add,new" help:"Create an event"`

	Status     StatusCmd  `cmd:"" help:"Show auth and config status"`
	Logout     LogoutCmd  `cmd:"" help:"Remove the stored credential for the profile"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Print version"`
}

type exitPanic struct{ code int }

// Execute runs one command and guarantees exactly one JSON envelope on
// stdout: every failure anywhere (parse, validation, auth gate, date
// resolution, remote call) is converted here, never thrown past main.
func Execute(args []string) (err error) {
	u := ui.New(os.Stderr)

	parser, cli, err := newParser()
	if err != nil {
		return emitFailure(u, err)
	}

	defer func() {
		if r := recover(); r != nil {
			ep, ok := r.(exitPanic)
			if !ok {
				panic(r)
			}
			if ep.code == 0 {
				err = nil
				return
			}
			err = &ExitError{Code: ep.code, Err: errors.New("exited")}
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return emitFailure(u, wrapParseError(err))
	}

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx := context.Background()
	ctx = ui.WithUI(ctx, u)

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(&cli.RootFlags)

	if err := kctx.Run(); err != nil {
		return emitFailure(u, err)
	}

	return nil
}

// emitFailure maps an error onto its envelope and stable exit code.
func emitFailure(u *ui.UI, err error) error {
	err = stableExitCode(err)

	var authErr *msauth.AuthRequiredError
	if errors.As(err, &authErr) {
		u.Hintf("To finish sign-in, visit %s and enter code %s, then re-run the command.",
			authErr.VerificationURI, authErr.UserCode)
	}

	if werr := outfmt.Write(os.Stdout, failureResponse(err)); werr != nil {
		fmt.Fprintln(os.Stderr, werr)
	}

	return err
}

func failureResponse(err error) outfmt.Response {
	var authErr *msauth.AuthRequiredError
	if errors.As(err, &authErr) {
		return outfmt.AuthRequired(authErr.UserCode, authErr.VerificationURI)
	}

	var pendErr *msauth.AuthPendingError
	if errors.As(err, &pendErr) {
		return outfmt.AuthPending()
	}

	return outfmt.Errorf("%s", errMessage(err))
}

func errMessage(err error) string {
	var ee *ExitError
	if errors.As(err, &ee) && ee.Err != nil {
		return ee.Err.Error()
	}

	return err.Error()
}

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}

	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		return &ExitError{Code: exitCodeUsage, Err: parseErr}
	}

	return err
}

func newParser() (*kong.Kong, *CLI, error) {
	vars := kong.Vars{
		"profile": config.DefaultProfile(),
		"version": VersionString(),
	}

	cli := &CLI{}
	parser, err := kong.New(
		cli,
		kong.Name("mog"),
		kong.Description("Microsoft 365 calendar CLI; emits one JSON envelope per invocation"),
		kong.UsageOnError(),
		kong.Vars(vars),
		kong.Writers(os.Stdout, os.Stderr),
		kong.Exit(func(code int) { panic(exitPanic{code: code}) }),
	)
	if err != nil {
		return nil, nil, err
	}

	return parser, cli, nil
}
