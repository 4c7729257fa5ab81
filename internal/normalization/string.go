package normalization

import (
	"strconv"
	"strings"
)

// ParseInputString trims and lower-cases free text used for lookups.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimText trims surrounding whitespace from stored free text.
func TrimText(input string) string {
	return strings.TrimSpace(input)
}

// IDText renders a numeric catalog id the way address rows store it.
// A missing id (zero or negative) is stored as empty text.
func IDText(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
