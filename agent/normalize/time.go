package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	meridiemRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)
	bareHourRe = regexp.MustCompile(`^(\d{1,2})$`)
)

// Time resolves a time expression to zero-padded 24-hour HH:MM. Forms
// without an am/pm suffix are treated as already 24-hour and validated.
func Time(text string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return "", ErrUnrecognizedTime
	}

	if m := meridiemRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return "", ErrUnrecognizedTime
		}
		// 12pm stays 12:00, 12am becomes 00:00.
		if m[3] == "pm" && hour < 12 {
			hour += 12
		} else if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", ErrUnrecognizedTime
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	if m := bareHourRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour > 23 {
			return "", ErrUnrecognizedTime
		}
		return fmt.Sprintf("%02d:00", hour), nil
	}

	return "", ErrUnrecognizedTime
}
