package cal

import (
	"math"
	"sort"
)

// HasEvent reports whether any stored event occurs on the given
// calendar day (canonical yyyy-mm-dd, no time-of-day comparison).
func (s *Store) HasEvent(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].Date == date {
			return true
		}
	}
	return false
}

// EventsForDate lists the day's events ordered by time ascending,
// ties kept in insertion order. Canonical HH:mm strings order
// correctly as text; events without a time sort first.
func (s *Store) EventsForDate(date string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for i := range s.events {
		if s.events[i].Date == date {
			out = append(out, s.events[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// SortEvents orders a copy of the given events by parsed date
// ascending. Keys are computed up front so the comparator stays a
// strict weak ordering; events whose dates don't parse share one
// key ranking after every parsed date and keep their relative order.
func SortEvents(events []Event) []Event {
	type keyedEvent struct {
		key   int64
		event Event
	}
	keyed := make([]keyedEvent, 0, len(events))
	for _, event := range events {
		key := int64(math.MaxInt64)
		if day, err := ParseDate(event.Date); err == nil {
			key = day.Unix()
		}
		keyed = append(keyed, keyedEvent{key: key, event: event})
	}
	sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].key < keyed[j].key })

	out := make([]Event, 0, len(events))
	for _, k := range keyed {
		out = append(out, k.event)
	}
	return out
}
