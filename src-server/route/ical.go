package route

import (
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"kalender/src-server/cal"
	"kalender/src-server/utils"

	"github.com/xyedo/rrule"
)

// ids of generated instances look like "<parent>-<yyyymmdd>"
var instanceIDPattern = regexp.MustCompile(`^(.+)-(\d{8})$`)

// Ical serves the whole store as an iCalendar feed so the calendar
// can be followed from a regular calendar client. Instances that
// came from one draft are folded back into a single VEVENT.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ical", func(w http.ResponseWriter, r *http.Request) {
		events := cal.SortEvents(as.EventStore.List())

		type series struct {
			base  cal.Event
			dates []string
		}
		var order []string
		grouped := map[string]*series{}
		for _, ev := range events {
			key := ev.ID
			if ev.Recurring != cal.RECURRING_NONE && ev.Recurring != "" {
				if m := instanceIDPattern.FindStringSubmatch(ev.ID); m != nil {
					key = m[1]
				}
			}
			s, ok := grouped[key]
			if !ok {
				s = &series{base: ev}
				grouped[key] = s
				order = append(order, key)
			}
			s.dates = append(s.dates, ev.Date)
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		writer := func(s string) {
			if _, err := io.WriteString(w, s+"\r\n"); err != nil {
				slog.Warn("can't write to response", "where", "route/ical.go", "error", err)
			}
		}

		writer("BEGIN:VCALENDAR")
		writer("VERSION:2.0")
		writer("PRODID:-//kalender//DE")
		now := time.Now().UTC().Format("20060102T150405Z")
		for _, key := range order {
			s := grouped[key]
			dtstart := icalDateTime(s.dates[0], s.base.Time)
			if dtstart == "" {
				// a bare DTSTART: would poison the whole feed
				slog.Warn("skipping event with malformed date", "id", s.base.ID, "date", s.dates[0])
				continue
			}
			writer("BEGIN:VEVENT")
			writer("UID:" + key)
			writer("DTSTAMP:" + now)
			writer("SUMMARY:" + escapeText(s.base.Title))
			writer("DTSTART:" + dtstart)
			if len(s.dates) > 1 {
				if ruleLine, ok := ruleFor(s.base, s.dates); ok {
					writer(ruleLine)
				} else if rdates := rdateLine(s.dates[1:], s.base.Time); rdates != "" {
					writer("RDATE:" + rdates)
				}
			}
			writer("END:VEVENT")
		}
		writer("END:VCALENDAR")
	})
}

// ruleFor rebuilds the RRULE a stepped series implies and keeps it
// only when the RFC 5545 expansion reproduces the stored dates
// exactly. Monthly series that were clamped to a shorter month
// don't round-trip (the RFC skips those months) and fall back to an
// RDATE list.
func ruleFor(base cal.Event, dates []string) (string, bool) {
	var freq string
	switch base.Recurring {
	case cal.RECURRING_DAILY:
		freq = "DAILY"
	case cal.RECURRING_WEEKLY:
		freq = "WEEKLY"
	case cal.RECURRING_MONTHLY:
		freq = "MONTHLY"
	default:
		return "", false
	}

	line := "RRULE:FREQ=" + freq + ";UNTIL=" + icalDateTime(dates[len(dates)-1], base.Time)
	set, err := rrule.StrToRRuleSet(
		"DTSTART:" + icalDateTime(dates[0], base.Time) + "\n" + line)
	if err != nil {
		return "", false
	}
	expanded := set.All()
	if len(expanded) != len(dates) {
		return "", false
	}
	for i, d := range expanded {
		if d.UTC().Format(cal.DateLayout) != dates[i] {
			return "", false
		}
	}
	return line, true
}

func rdateLine(dates []string, clock string) string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if v := icalDateTime(d, clock); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}

func icalDateTime(date, clock string) string {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse(cal.DateLayout+" "+cal.TimeLayout, date+" "+clock)
	if err != nil {
		// stored dates are canonical by construction
		slog.Warn("can't format ical datetime", "date", date, "time", clock, "error", err)
		return ""
	}
	return t.UTC().Format("20060102T150405Z")
}

func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
