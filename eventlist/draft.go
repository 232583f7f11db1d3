package eventlist

import (
	"fmt"
	"strings"
)

// Field identifies one of the four draft fields. The set is closed: only the declared
// constants are valid, the zero value and any other number are rejected by the Store.
type Field uint8

const (
	FieldTitle Field = iota + 1
	FieldDate
	FieldTime
	FieldLocation
)

const (
	fieldNameTitle    = "title"
	fieldNameDate     = "date"
	fieldNameTime     = "time"
	fieldNameLocation = "location"
)

// Fields returns all valid draft fields in form order.
func Fields() []Field {
	return []Field{FieldTitle, FieldDate, FieldTime, FieldLocation}
}

// ParseField maps a field name (case-insensitive, surrounding whitespace ignored) to a Field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case fieldNameTitle:
		return FieldTitle, nil
	case fieldNameDate:
		return FieldDate, nil
	case fieldNameTime:
		return FieldTime, nil
	case fieldNameLocation:
		return FieldLocation, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// IsValid reports whether f is one of the declared field constants.
func (f Field) IsValid() bool {
	return f >= FieldTitle && f <= FieldLocation
}

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return fieldNameTitle
	case FieldDate:
		return fieldNameDate
	case FieldTime:
		return fieldNameTime
	case FieldLocation:
		return fieldNameLocation
	default:
		return "unknown"
	}
}

// MarshalText encodes the field as its name.
func (f Field) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, ErrUnknownField
	}

	return []byte(f.String()), nil
}

// UnmarshalText decodes a field name.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// Draft is the in-progress new-event form. It has no ID and no RSVP counter until it is committed.
type Draft struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// EmptyDraft returns a Draft with all four fields set to the empty string.
func EmptyDraft() Draft {
	return Draft{}
}

// With returns a copy of the Draft where the given field is replaced by value.
// An invalid field leaves the copy unchanged.
func (d Draft) With(field Field, value string) Draft {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDate:
		d.Date = value
	case FieldTime:
		d.Time = value
	case FieldLocation:
		d.Location = value
	}

	return d
}

// Value returns the current value of the given field, or "" for an invalid field.
func (d Draft) Value(field Field) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldDate:
		return d.Date
	case FieldTime:
		return d.Time
	case FieldLocation:
		return d.Location
	default:
		return ""
	}
}

// MissingFields returns the fields that are empty or whitespace-only, in form order.
func (d Draft) MissingFields() []Field {
	var missing []Field

	for _, field := range Fields() {
		if isBlank(d.Value(field)) {
			missing = append(missing, field)
		}
	}

	return missing
}

// IsComplete reports whether all four fields have a non-blank value.
func (d Draft) IsComplete() bool {
	return len(d.MissingFields()) == 0
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
