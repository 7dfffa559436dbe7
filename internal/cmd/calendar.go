package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/steipete/mogcli/internal/graph"
	"github.com/steipete/mogcli/internal/outfmt"
)

type ListCmd struct {
	Start string `name:"start" help:"Window start (ISO date/time, today, tomorrow, +N[dmy])"`
	End   string `name:"end" help:"Window end (resolved against the resolved start)"`
	Top   int    `name:"top" aliases:"limit,max" help:"Max events" default:"10"`
}

func (c *ListCmd) Run(ctx context.Context, flags *RootFlags) error {
	svc, err := authedService(ctx, flags, readScopes)
	if err != nil {
		return err
	}

	w, err := resolveListWindow(strings.TrimSpace(c.Start), strings.TrimSpace(c.End), timeNow())
	if err != nil {
		return err
	}

	events, err := svc.ListEvents(ctx, w, c.Top)
	if err != nil {
		return err
	}

	return writeEvents(events)
}

type TodayCmd struct {
	Top int `name:"top" aliases:"limit,max" help:"Max events" default:"10"`
}

func (c *TodayCmd) Run(ctx context.Context, flags *RootFlags) error {
	svc, err := authedService(ctx, flags, readScopes)
	if err != nil {
		return err
	}

	events, err := svc.ListEvents(ctx, todayWindow(timeNow()), c.Top)
	if err != nil {
		return err
	}

	return writeEvents(events)
}

type WeekCmd struct {
	Top int `name:"top" aliases:"limit,max" help:"Max events" default:"10"`
}

func (c *WeekCmd) Run(ctx context.Context, flags *RootFlags) error {
	svc, err := authedService(ctx, flags, readScopes)
	if err != nil {
		return err
	}

	w, err := weekWindow(timeNow())
	if err != nil {
		return err
	}

	events, err := svc.ListEvents(ctx, w, c.Top)
	if err != nil {
		return err
	}

	return writeEvents(events)
}

type ViewCmd struct {
	ID string `name:"id" help:"Event id"`
}

func (c *ViewCmd) Run(ctx context.Context, flags *RootFlags) error {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return usage("required: --id")
	}

	svc, err := authedService(ctx, flags, readScopes)
	if err != nil {
		return err
	}

	event, err := svc.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	return writeEvent(*event)
}

type SearchCmd struct {
	Query string `name:"query" help:"Subject substring"`
	Top   int    `name:"top" aliases:"limit,max" help:"Max events" default:"10"`
}

func (c *SearchCmd) Run(ctx context.Context, flags *RootFlags) error {
	query := strings.TrimSpace(c.Query)
	if query == "" {
		return usage("required: --query")
	}

	svc, err := authedService(ctx, flags, readScopes)
	if err != nil {
		return err
	}

	events, err := svc.SearchEvents(ctx, query, c.Top)
	if err != nil {
		return err
	}

	return writeEvents(events)
}

func writeEvents(events []graph.Event) error {
	formatted := make([]graph.FormattedEvent, 0, len(events))
	for _, ev := range events {
		formatted = append(formatted, graph.Format(ev))
	}

	return outfmt.Write(os.Stdout, outfmt.Success(formatted))
}

func writeEvent(ev graph.Event) error {
	return outfmt.Write(os.Stdout, outfmt.Success(graph.Format(ev)))
}
