package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/steipete/mogcli/internal/timeparse"
)

func TestResolveListWindow(t *testing.T) {
	now := time.Date(2026, 2, 13, 9, 30, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}{
		{
			name:      "defaults",
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, defaultListSpanDays),
		},
		{
			name:      "start only keeps span",
			start:     "tomorrow",
			wantStart: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "end relative to start",
			start:     "tomorrow",
			end:       "+7d",
			wantStart: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "end only relative to now",
			end:       "+3d",
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 3),
		},
		{name: "invalid start", start: "yolo", wantErr: timeparse.ErrInvalidDateExpr},
		{name: "invalid end", end: "nope", wantErr: timeparse.ErrInvalidDateExpr},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveListWindow(tc.start, tc.end, now)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveListWindow: %v", err)
			}
			if !got.Start.Equal(tc.wantStart) {
				t.Fatalf("start = %v, want %v", got.Start, tc.wantStart)
			}
			if !got.End.Equal(tc.wantEnd) {
				t.Fatalf("end = %v, want %v", got.End, tc.wantEnd)
			}
		})
	}
}
