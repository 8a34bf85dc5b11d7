package cal

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type RecurringType string

const (
	RECURRING_NONE    = RecurringType("none")
	RECURRING_DAILY   = RecurringType("daily")
	RECURRING_WEEKLY  = RecurringType("weekly")
	RECURRING_MONTHLY = RecurringType("monthly")
	RECURRING_CUSTOM  = RecurringType("custom")
)

const (
	// stored event dates, e.g. "2024-01-31"
	DateLayout = "2006-01-02"
	// stored event times, e.g. "09:30"
	TimeLayout = "15:04"
)

// user-entered custom dates; the first layout is canonical
var customDateLayouts = []string{"02.01.2006", "02/01/2006"}

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Event is the durable unit the store owns. The JSON shape is the
// interchange format persisted under the "events" key.
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Date        string        `json:"date"`
	Time        string        `json:"time,omitempty"`
	Recurring   RecurringType `json:"recurring"`
	CustomDates []string      `json:"customDates,omitempty"`
}

// Draft is an unsaved, user-authored event definition. Expand turns
// it into one or more Events; RecurrenceEndDate never survives onto
// the generated instances.
type Draft struct {
	Title             string        `json:"title"`
	Date              string        `json:"date"`
	Time              string        `json:"time"`
	Recurring         RecurringType `json:"recurring"`
	CustomDates       []string      `json:"customDates"`
	RecurrenceEndDate string        `json:"recurrenceEndDate"`
}

// ParseDate parses a stored event date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// CanonicalTime validates a 24-hour HH:mm string and returns it
// zero-padded.
func CanonicalTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !timePattern.MatchString(s) {
		return "", &InvalidTimeError{Value: s}
	}
	if len(s) == 4 {
		s = "0" + s
	}
	return s, nil
}

func parseCustomDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range customDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parseCustomDate: %q matches no accepted layout", s)
}
