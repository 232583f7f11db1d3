package eventlist

// EventID is the opaque identifier of a committed Event.
type EventID = string

// Events is an alias type for a slice of Event
type Events = []Event

// Event is a committed, scheduled gathering.
//
// All fields except RSVPs are fixed at commit time. Date and Time are kept as the text the user
// entered (typically YYYY-MM-DD and HH:MM) and carry no timezone semantics.
type Event struct {
	ID       EventID `json:"id"`
	Title    string  `json:"title"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Location string  `json:"location"`
	RSVPs    uint    `json:"rsvps"`
}

func buildEvent(id EventID, draft Draft) Event {
	return Event{
		ID:       id,
		Title:    draft.Title,
		Date:     draft.Date,
		Time:     draft.Time,
		Location: draft.Location,
		RSVPs:    0,
	}
}

// withOneMoreRSVP returns a copy of the Event with the RSVP counter incremented by exactly one.
func (e Event) withOneMoreRSVP() Event {
	e.RSVPs++

	return e
}

func indexOfEvent(events Events, id EventID) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}

	return -1
}
