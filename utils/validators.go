package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const minLen = 3
const maxLen = 48 // IMPORTANT: This is declared in the model as well

var re = regexp.MustCompile(`^[a-z]+[a-z0-9]*$`)

func IsValidTokenName(name string) bool {
	if !re.MatchString(name) {
		return false
	}
	if utf8.RuneCountInString(name) < minLen {
		return false
	}
	if utf8.RuneCountInString(name) > maxLen || len(name) > maxLen {
		return false
	}
	return true
}

// ParseIDList parses a comma separated list of telegram ids, empty items are skipped
func ParseIDList(s string) ([]int64, error) {
	ids := make([]int64, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
