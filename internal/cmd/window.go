package cmd

import (
	"time"

	"github.com/steipete/mogcli/internal/graph"
	"github.com/steipete/mogcli/internal/timeparse"
)

const defaultListSpanDays = 30

// resolveListWindow computes the [start, end] query window. End expressions
// resolve against the resolved start, so "--start tomorrow --end +7d" means
// seven days after tomorrow, not seven days from now. A --start without
// --end keeps the default 30-day span anchored at the resolved start.
func resolveListWindow(startExpr, endExpr string, now time.Time) (graph.Window, error) {
	start := now

	if startExpr != "" {
		s, err := resolveExpr(startExpr, now)
		if err != nil {
			return graph.Window{}, err
		}
		start = s
	}

	end := start.AddDate(0, 0, defaultListSpanDays)

	if endExpr != "" {
		e, err := resolveExpr(endExpr, start)
		if err != nil {
			return graph.Window{}, err
		}
		end = e
	}

	return graph.Window{Start: start, End: end}, nil
}

func todayWindow(now time.Time) graph.Window {
	return graph.Window{
		Start: timeparse.StartOfDay(now),
		End:   timeparse.EndOfDay(now),
	}
}

// weekWindow is a thin preset over the shared resolver: start of today
// through +7d.
func weekWindow(now time.Time) (graph.Window, error) {
	start := timeparse.StartOfDay(now)

	end, err := resolveExpr("+7d", start)
	if err != nil {
		return graph.Window{}, err
	}

	return graph.Window{Start: start, End: end}, nil
}
