package graph

// FormattedAttendee reduces an attendee to its contact pair.
type FormattedAttendee struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// FormattedEvent is the flat, null-safe projection emitted to callers:
// isAllDay is always present, attendees is never null, optionals collapse
// to their display value or null.
type FormattedEvent struct {
	ID          string              `json:"id"`
	Subject     string              `json:"subject"`
	Start       DateTimeTimeZone    `json:"start"`
	End         DateTimeTimeZone    `json:"end"`
	IsAllDay    bool                `json:"isAllDay"`
	Location    *string             `json:"location"`
	Organizer   *EmailAddress       `json:"organizer"`
	Attendees   []FormattedAttendee `json:"attendees"`
	BodyPreview *string             `json:"bodyPreview"`
}

// Format projects a service event into its flat output shape. Pure; safe to
// call on events with any combination of absent optionals.
func Format(ev Event) FormattedEvent {
	out := FormattedEvent{
		ID:          ev.ID,
		Subject:     ev.Subject,
		Start:       ev.Start,
		End:         ev.End,
		IsAllDay:    ev.IsAllDay,
		Attendees:   make([]FormattedAttendee, 0, len(ev.Attendees)),
		BodyPreview: ev.BodyPreview,
	}

	if ev.Location != nil && ev.Location.DisplayName != "" {
		name := ev.Location.DisplayName
		out.Location = &name
	}

	if ev.Organizer != nil {
		contact := ev.Organizer.EmailAddress
		out.Organizer = &contact
	}

	for _, a := range ev.Attendees {
		fa := FormattedAttendee{Email: a.EmailAddress.Address}
		if a.Status != nil {
			fa.Status = a.Status.Response
		}
		out.Attendees = append(out.Attendees, fa)
	}

	return out
}
