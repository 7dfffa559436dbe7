package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// UI prints human-facing hints to stderr. stdout belongs to the response
// envelope, so nothing here ever writes there; hints are suppressed entirely
// when stderr is not a terminal.
type UI struct {
	out *termenv.Output
	tty bool
}

func New(f *os.File) *UI {
	return &UI{
		out: termenv.NewOutput(f),
		tty: term.IsTerminal(int(f.Fd())),
	}
}

type ctxKey struct{}

func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) *UI {
	if v := ctx.Value(ctxKey{}); v != nil {
		if u, ok := v.(*UI); ok {
			return u
		}
	}

	return nil
}

// Hintf prints a dim one-line hint.
func (u *UI) Hintf(format string, args ...any) {
	if u == nil || !u.tty {
		return
	}

	fmt.Fprintln(u.out, u.out.String(fmt.Sprintf(format, args...)).Faint())
}

// Noticef prints a bold one-line notice.
func (u *UI) Noticef(format string, args ...any) {
	if u == nil || !u.tty {
		return
	}

	fmt.Fprintln(u.out, u.out.String(fmt.Sprintf(format, args...)).Bold())
}
