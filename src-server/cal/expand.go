package cal

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Recurring drafts without an explicit end date stop this many
// months after the start.
const DefaultRecurrenceMonths = 3

// Expand turns one authored draft into the concrete list of events
// it implies. It owns nothing and mutates nothing; the caller
// commits the whole batch to the store or none of it. The returned
// list is never empty on success and its dates never decrease.
func Expand(draft Draft, generatedAt time.Time) ([]Event, error) {
	// time is validated before anything else so a bad HH:mm can
	// never surface mid-series
	timeStr := ""
	if strings.TrimSpace(draft.Time) != "" {
		var err error
		if timeStr, err = CanonicalTime(draft.Time); err != nil {
			return nil, err
		}
	}

	parentID := fmt.Sprintf("%d", generatedAt.UnixMilli())
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	switch draft.Recurring {
	case RECURRING_NONE, "":
		start, err := ParseDate(draft.Date)
		if err != nil {
			return nil, fmt.Errorf("Expand: can't parse draft date: %w", err)
		}
		return []Event{{
			ID:        parentID,
			Title:     title,
			Date:      start.Format(DateLayout),
			Time:      timeStr,
			Recurring: RECURRING_NONE,
		}}, nil

	case RECURRING_CUSTOM:
		return expandCustom(draft, parentID, title, timeStr)

	case RECURRING_DAILY, RECURRING_WEEKLY, RECURRING_MONTHLY:
		return expandStepped(draft, parentID, title, timeStr)

	default:
		return nil, fmt.Errorf("Expand: unknown recurring tag %q", draft.Recurring)
	}
}

// expandCustom emits one instance per entry of the draft's explicit
// date list. Entries that fail to parse are collected and reported
// together rather than failing on the first bad one.
func expandCustom(draft Draft, parentID, title, timeStr string) ([]Event, error) {
	var days []time.Time
	var invalid []string
	for _, raw := range draft.CustomDates {
		day, err := parseCustomDate(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		days = append(days, day)
	}
	if len(invalid) > 0 {
		return nil, &InvalidCustomDatesError{Entries: invalid}
	}
	if len(days) == 0 {
		return nil, ErrNoValidDates
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	canonical := make([]string, 0, len(days))
	events := make([]Event, 0, len(days))
	for _, day := range days {
		// duplicated entries collapse, their ids would collide anyway
		if len(canonical) > 0 && canonical[len(canonical)-1] == day.Format(DateLayout) {
			continue
		}
		canonical = append(canonical, day.Format(DateLayout))
		events = append(events, Event{
			ID:        parentID + "-" + day.Format("20060102"),
			Title:     title,
			Date:      day.Format(DateLayout),
			Time:      timeStr,
			Recurring: RECURRING_CUSTOM,
		})
	}
	for i := range events {
		events[i].CustomDates = canonical
	}
	return events, nil
}

// expandStepped emits the daily/weekly/monthly series from the
// draft's start date up to (and including) its end bound. The first
// instance is always emitted; every later step derives from the
// original start so a clamped February doesn't shorten March.
func expandStepped(draft Draft, parentID, title, timeStr string) ([]Event, error) {
	start, err := ParseDate(draft.Date)
	if err != nil {
		return nil, fmt.Errorf("Expand: can't parse draft date: %w", err)
	}
	end := addMonthsClamped(start, DefaultRecurrenceMonths)
	if strings.TrimSpace(draft.RecurrenceEndDate) != "" {
		if end, err = ParseDate(draft.RecurrenceEndDate); err != nil {
			return nil, fmt.Errorf("Expand: can't parse recurrence end date: %w", err)
		}
	}

	var events []Event
	emit := func(day time.Time) {
		events = append(events, Event{
			ID:        parentID + "-" + day.Format("20060102"),
			Title:     title,
			Date:      day.Format(DateLayout),
			Time:      timeStr,
			Recurring: draft.Recurring,
		})
	}

	emit(start)
	for i := 1; ; i++ {
		var next time.Time
		switch draft.Recurring {
		case RECURRING_DAILY:
			next = start.AddDate(0, 0, i)
		case RECURRING_WEEKLY:
			next = start.AddDate(0, 0, 7*i)
		case RECURRING_MONTHLY:
			next = addMonthsClamped(start, i)
		}
		if next.After(end) {
			break
		}
		emit(next)
	}
	return events, nil
}

// addMonthsClamped steps forward by whole months, landing on the
// last valid day when the start day doesn't exist in the target
// month (Jan 31 -> Feb 29 in a leap year). time.AddDate would
// normalize that into March instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}
