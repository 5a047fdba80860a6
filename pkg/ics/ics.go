// Package ics writes generated schedules as iCalendar files.
package ics

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// TimeLayout is the UTC date-time form used for DTSTART, DTEND and DTSTAMP.
const TimeLayout = "20060102T150405Z"

const (
	prodID    = "-//studyplan//Study Planner//EN"
	uidDomain = "studyplan"
	crlf      = "\r\n"
	// maxLineOctets is the content line limit before folding.
	maxLineOctets = 75
)

// Options tune the calendar header.
type Options struct {
	// CalendarName is written as X-WR-CALNAME. Empty means "Study Plan".
	CalendarName string
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", "",
)

// EscapeText escapes free text for use in a property value.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// FormatTime renders t in UTC as YYYYMMDDThhmmssZ.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FoldLine splits a content line longer than 75 octets into CRLF + space
// continuations. Cuts never fall inside a UTF-8 sequence.
func FoldLine(s string) string {
	if len(s) <= maxLineOctets {
		return s
	}
	var b strings.Builder
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString(crlf + " ")
		s = s[cut:]
		// the leading space counts against the limit
		limit = maxLineOctets - 1
	}
	b.WriteString(s)
	return b.String()
}

// Marshal renders sched as an iCalendar document.
func Marshal(sched model.GeneratedSchedule, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, sched, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams sched to w as an iCalendar document with one VEVENT per
// session.
func Write(w io.Writer, sched model.GeneratedSchedule, opts Options) error {
	name := opts.CalendarName
	if name == "" {
		name = "Study Plan"
	}

	bw := bufio.NewWriter(w)
	line := func(format string, args ...interface{}) {
		bw.WriteString(FoldLine(fmt.Sprintf(format, args...)))
		bw.WriteString(crlf)
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", prodID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("X-WR-CALNAME:%s", EscapeText(name))
	line("X-WR-TIMEZONE:UTC")

	stamp := FormatTime(sched.GeneratedAt)
	for _, s := range sched.Sessions {
		line("BEGIN:VEVENT")
		line("UID:%s@%s", s.ID, uidDomain)
		line("DTSTAMP:%s", stamp)
		line("DTSTART:%s", FormatTime(s.Start))
		line("DTEND:%s", FormatTime(s.End))
		line("SUMMARY:%s", EscapeText(s.Title))
		if s.Notes != "" {
			line("DESCRIPTION:%s", EscapeText(s.Notes))
		}
		if s.Location != "" {
			line("LOCATION:%s", EscapeText(s.Location))
		}
		if s.Activity != "" {
			line("CATEGORIES:%s", EscapeText(s.Activity))
		}
		line("STATUS:CONFIRMED")
		line("TRANSP:OPAQUE")
		line("SEQUENCE:0")
		line("END:VEVENT")
	}
	line("END:VCALENDAR")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}
