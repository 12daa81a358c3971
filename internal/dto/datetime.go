package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/constants"
)

// dateLayouts are tried in order; layouts without an offset are read in
// the location set by SetInputLocation.
var dateLayouts = []string{
	time.RFC3339Nano,
	constants.DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var inputLocation = time.Local

// SetInputLocation sets the zone for date strings that carry no offset.
func SetInputLocation(loc *time.Location) {
	if loc != nil {
		inputLocation = loc
	}
}

// DateTime is a request timestamp accepting the formats browsers and the
// front end send.
type DateTime struct {
	time.Time
}

// InvalidDateError reports an unparseable due date.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return "The due date field must be a valid date."
}

// Field implements errors.FieldError.
func (e *InvalidDateError) Field() string {
	return "due_date"
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &InvalidDateError{Value: string(data)}
	}

	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDateTime parses raw using the accepted layouts.
func ParseDateTime(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, inputLocation); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidDateError{Value: raw}
}
