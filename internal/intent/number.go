package intent

import (
	"regexp"
	"strconv"
	"strings"
)

var digitsRe = regexp.MustCompile(`\d+`)

// wordNums maps spoken forms, including common mishearings, to selection
// numbers. Zero doubles as a cancel answer.
var wordNums = map[string]int{
	"zero": 0, "oh": 0, "none": 0, "no": 0,
	"one": 1, "first": 1,
	"two": 2, "second": 2, "to": 2, "too": 2,
	"three": 3, "third": 3,
	"four": 4, "for": 4, "fourth": 4,
	"five": 5, "fifth": 5,
	"six": 6, "sixth": 6,
	"seven": 7, "seventh": 7,
	"eight": 8, "ate": 8, "eighth": 8,
	"nine": 9, "ninth": 9,
	"ten": 10, "tenth": 10,
}

// ParseSpokenNumber extracts a selection number from an utterance, digits
// first, then word forms. Returns -1 when nothing numeric can be heard.
func ParseSpokenNumber(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return -1
	}
	if m := digitsRe.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	for _, t := range strings.FieldsFunc(s, splitNonWord) {
		if n, ok := wordNums[t]; ok {
			return n
		}
	}
	return -1
}

func splitNonWord(r rune) bool {
	return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
}

func isCancel(s string) bool {
	switch strings.TrimSpace(s) {
	case "cancel", "never mind", "nevermind", "forget it":
		return true
	}
	return false
}
