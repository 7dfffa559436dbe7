package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyDateExpr   = errors.New("empty date expression")
	ErrInvalidDateExpr = errors.New("invalid date expression")
)

// relativeOffsetRe matches signed relative offsets: +7d, +2m, +1y.
var relativeOffsetRe = regexp.MustCompile(`^\+(\d+)([dmy])$`)

// Resolve converts a date expression into a concrete instant relative to base.
// Supported: the keywords "today" and "tomorrow" (case-insensitive), signed
// relative offsets (+N followed by d/m/y, advanced with calendar-aware
// arithmetic so month-length and leap-year effects are handled), and absolute
// ISO-8601 timestamps or date-only strings, which ignore base entirely.
// Anything else is ErrInvalidDateExpr.
func Resolve(expr string, base time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, ErrEmptyDateExpr
	}

	lower := strings.ToLower(expr)
	switch lower {
	case "today":
		return StartOfDay(base), nil
	case "tomorrow":
		return StartOfDay(base).AddDate(0, 0, 1), nil
	}

	if m := relativeOffsetRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateExpr, expr)
		}

		switch m[2] {
		case "d":
			return base.AddDate(0, 0, n), nil
		case "m":
			return base.AddDate(0, n, 0), nil
		case "y":
			return base.AddDate(n, 0, 0), nil
		}
	}

	return parseAbsolute(expr)
}

// parseAbsolute parses absolute ISO-8601 forms: RFC3339(+nano), numeric
// offset without a colon, and local datetime/date layouts without timezone.
func parseAbsolute(value string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q (try: 2026-01-05, today, tomorrow, +7d)", ErrInvalidDateExpr, value)
}

// StartOfDay returns the start of the day (00:00:00) in the given time's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the end of the day (23:59:59.999) in the given time's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
