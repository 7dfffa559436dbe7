package graph

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateTimeTimeZone is Graph's timestamp pair.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

type Location struct {
	DisplayName string `json:"displayName"`
}

type ResponseStatus struct {
	Response string `json:"response,omitempty"`
	Time     string `json:"time,omitempty"`
}

type Attendee struct {
	Type         string          `json:"type,omitempty"`
	Status       *ResponseStatus `json:"status,omitempty"`
	EmailAddress EmailAddress    `json:"emailAddress"`
}

type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Event is the service's nested event representation, also used as the
// create request body. The service may omit false-valued booleans and
// absent optionals; pointers keep that distinction where it matters.
type Event struct {
	ID          string           `json:"id,omitempty"`
	Subject     string           `json:"subject"`
	BodyPreview *string          `json:"bodyPreview,omitempty"`
	Body        *ItemBody        `json:"body,omitempty"`
	Start       DateTimeTimeZone `json:"start"`
	End         DateTimeTimeZone `json:"end"`
	IsAllDay    bool             `json:"isAllDay,omitempty"`
	Location    *Location        `json:"location,omitempty"`
	Organizer   *Recipient       `json:"organizer,omitempty"`
	Attendees   []Attendee       `json:"attendees,omitempty"`
}

type eventsPage struct {
	Value []Event `json:"value"`
}

// Window is a half-open [Start, End) query range.
type Window struct {
	Start time.Time
	End   time.Time
}

// ListEvents returns events overlapping the window, ascending by start.
func (c *Client) ListEvents(ctx context.Context, w Window, top int) ([]Event, error) {
	q := url.Values{}
	q.Set("startDateTime", w.Start.UTC().Format(time.RFC3339))
	q.Set("endDateTime", w.End.UTC().Format(time.RFC3339))
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", strconv.Itoa(top))

	var page eventsPage
	if err := c.get(ctx, "/me/calendarView?"+q.Encode(), &page); err != nil {
		return nil, err
	}

	return page.Value, nil
}

// GetEvent fetches one event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var ev Event
	if err := c.get(ctx, "/me/events/"+url.PathEscape(id), &ev); err != nil {
		return nil, err
	}

	return &ev, nil
}

// SearchEvents lists events whose subject contains query.
func (c *Client) SearchEvents(ctx context.Context, query string, top int) ([]Event, error) {
	// OData string literals escape single quotes by doubling them.
	escaped := strings.ReplaceAll(query, "'", "''")

	q := url.Values{}
	q.Set("$filter", fmt.Sprintf("contains(subject,'%s')", escaped))
	q.Set("$top", strconv.Itoa(top))

	var page eventsPage
	if err := c.get(ctx, "/me/events?"+q.Encode(), &page); err != nil {
		return nil, err
	}

	return page.Value, nil
}

// EventDraft is the dispatcher-level shape for event creation; attendee
// addresses are already parsed and validated by the caller.
type EventDraft struct {
	Subject   string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Location  string
	Body      string
	Attendees []string
}

// CreateEvent creates a calendar event and returns the service's copy.
func (c *Client) CreateEvent(ctx context.Context, draft EventDraft) (*Event, error) {
	ev := Event{
		Subject:  draft.Subject,
		Start:    encodeDateTime(draft.Start, draft.AllDay),
		End:      encodeDateTime(draft.End, draft.AllDay),
		IsAllDay: draft.AllDay,
	}

	if loc := strings.TrimSpace(draft.Location); loc != "" {
		ev.Location = &Location{DisplayName: loc}
	}
	if draft.Body != "" {
		ev.Body = &ItemBody{ContentType: "Text", Content: draft.Body}
	}
	for _, addr := range draft.Attendees {
		ev.Attendees = append(ev.Attendees, Attendee{
			Type:         "required",
			EmailAddress: EmailAddress{Address: addr},
		})
	}

	var created Event
	if err := c.post(ctx, "/me/events", ev, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

// encodeDateTime renders an instant for Graph. Timed instants are sent in
// UTC; all-day events keep the resolved local calendar date so the day does
// not shift across the UTC conversion.
func encodeDateTime(t time.Time, allDay bool) DateTimeTimeZone {
	if allDay {
		return DateTimeTimeZone{DateTime: t.Format("2006-01-02T00:00:00"), TimeZone: "UTC"}
	}

	return DateTimeTimeZone{DateTime: t.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"}
}
