// Package normalize turns natural-language date, time and party-size
// expressions into the canonical forms the booking backend expects.
package normalize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnrecognizedDate = errors.New("unrecognized date expression")
	ErrUnrecognizedTime = errors.New("unrecognized time expression")
)

const canonicalDateLayout = "2006-01-02"

var (
	canonicalDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	inDaysRe        = regexp.MustCompile(`^in (\d+) days?$`)
	daysFromNowRe   = regexp.MustCompile(`^(\d+) days? from now$`)
	monthDayRe      = regexp.MustCompile(`^([a-z]+)\.? (\d{1,2})(?:st|nd|rd|th)?$`)
	dayMonthRe      = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)? ([a-z]+)\.?$`)
)

// Ordered: DD/MM is tried before MM/DD, so an ambiguous value like 03/04
// resolves day-first. time.Parse validates calendar ranges for us.
var numericDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Date resolves a natural-language date expression to YYYY-MM-DD, evaluated
// against now. The first matching rule wins.
func Date(text string, now time.Time) (string, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return "", ErrUnrecognizedDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Already canonical: validate, do not just pattern-match.
	if canonicalDateRe.MatchString(s) {
		if _, err := time.Parse(canonicalDateLayout, s); err != nil {
			return "", ErrUnrecognizedDate
		}
		return s, nil
	}

	switch s {
	case "today":
		return today.Format(canonicalDateLayout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(canonicalDateLayout), nil
	case "yesterday":
		return today.AddDate(0, 0, -1).Format(canonicalDateLayout), nil
	case "this weekend":
		// Upcoming Saturday; a Sunday rolls forward to next week.
		offset := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, offset).Format(canonicalDateLayout), nil
	}

	if d, ok := resolveWeekday(s, today); ok {
		return d, nil
	}

	if m := inDaysRe.FindStringSubmatch(s); m != nil {
		return offsetDays(today, m[1])
	}
	if m := daysFromNowRe.FindStringSubmatch(s); m != nil {
		return offsetDays(today, m[1])
	}

	if d, ok := resolveMonthDay(s, today); ok {
		return d, nil
	}

	for _, layout := range numericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout), nil
		}
	}

	return "", ErrUnrecognizedDate
}

// resolveWeekday handles bare, "next"- and "this"-qualified weekday names.
// A bare or "next" weekday is always the next future occurrence; "this"
// resolves to the occurrence in the current week when it has not passed yet.
func resolveWeekday(s string, today time.Time) (string, bool) {
	qualifier := ""
	name := s
	if fields := strings.Fields(s); len(fields) == 2 {
		if fields[0] != "next" && fields[0] != "this" {
			return "", false
		}
		qualifier, name = fields[0], fields[1]
	}

	wd, ok := weekdayNames[name]
	if !ok {
		return "", false
	}

	offset := (int(wd) - int(today.Weekday()) + 7) % 7
	if offset == 0 && qualifier != "this" {
		offset = 7
	}
	return today.AddDate(0, 0, offset).Format(canonicalDateLayout), true
}

// resolveMonthDay handles "Dec 25" and "25 Dec" style expressions, assuming
// the current year and rolling to next year once the date has passed.
func resolveMonthDay(s string, today time.Time) (string, bool) {
	var monthToken, dayToken string
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		monthToken, dayToken = m[1], m[2]
	} else if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		dayToken, monthToken = m[1], m[2]
	} else {
		return "", false
	}

	month, ok := monthNames[monthToken]
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(dayToken)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}

	candidate := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
	if candidate.Month() != month || candidate.Day() != day {
		// time.Date normalized an invalid day such as Feb 30.
		return "", false
	}
	if candidate.Before(today) {
		candidate = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, today.Location())
		if candidate.Month() != month || candidate.Day() != day {
			return "", false
		}
	}
	return candidate.Format(canonicalDateLayout), true
}

func offsetDays(today time.Time, raw string) (string, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", ErrUnrecognizedDate
	}
	return today.AddDate(0, 0, n).Format(canonicalDateLayout), nil
}
