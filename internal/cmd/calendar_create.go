package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/steipete/mogcli/internal/graph"
)

type CreateCmd struct {
	Subject   string `name:"subject" aliases:"title" help:"Event subject"`
	Start     string `name:"start" help:"Start (ISO date/time, today, tomorrow, +N[dmy])"`
	End       string `name:"end" help:"End (resolved against the resolved start)"`
	Location  string `name:"location" help:"Event location"`
	Body      string `name:"body" aliases:"description" help:"Event body text"`
	Attendees string `name:"attendees" help:"Comma-separated attendee emails"`
	AllDay    bool   `name:"all-day" help:"Create an all-day event"`
}

func (c *CreateCmd) Run(ctx context.Context, flags *RootFlags) error {
	subject := strings.TrimSpace(c.Subject)
	startExpr := strings.TrimSpace(c.Start)

	if subject == "" {
		return usage("required: --subject")
	}
	if startExpr == "" {
		return usage("required: --start")
	}

	svc, err := authedService(ctx, flags, writeScopes)
	if err != nil {
		return err
	}

	start, err := resolveExpr(startExpr, timeNow())
	if err != nil {
		return err
	}

	end, err := c.resolveEnd(start)
	if err != nil {
		return err
	}

	draft := graph.EventDraft{
		Subject:   subject,
		Start:     start,
		End:       end,
		AllDay:    c.AllDay,
		Location:  strings.TrimSpace(c.Location),
		Body:      c.Body,
		Attendees: splitAttendees(c.Attendees),
	}

	event, err := svc.CreateEvent(ctx, draft)
	if err != nil {
		return err
	}

	return writeEvent(*event)
}

// resolveEnd picks the event end. Explicit --end resolves against the
// resolved start. Without one, all-day events span exactly one calendar day
// and timed events default to an hour.
func (c *CreateCmd) resolveEnd(start time.Time) (time.Time, error) {
	if endExpr := strings.TrimSpace(c.End); endExpr != "" {
		return resolveExpr(endExpr, start)
	}

	if c.AllDay {
		return start.AddDate(0, 0, 1), nil
	}

	return start.Add(time.Hour), nil
}
