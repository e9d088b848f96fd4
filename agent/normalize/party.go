package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRunRe = regexp.MustCompile(`\d+`)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// PartySize coerces a raw extracted value ("4", "four", "for 4 people", a
// JSON number) to a positive integer. A value that cannot be coerced is not
// an error: the slot is simply left unfilled.
func PartySize(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, v > 0
	case float64:
		n := int(v)
		return n, n > 0 && v == float64(n)
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, n > 0
		}
		if n, ok := numberWords[s]; ok {
			return n, true
		}
		if run := digitRunRe.FindString(s); run != "" {
			if n, err := strconv.Atoi(run); err == nil {
				return n, n > 0
			}
		}
	}
	return 0, false
}
