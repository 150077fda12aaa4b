package quiz

import (
	"fmt"
	"strings"
)

var smallNumbers = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	2: "twenty", 3: "thirty", 4: "forty", 5: "fifty", 6: "sixty", 7: "seventy", 8: "eighty", 9: "ninety",
}

// NumberToWords renders n (0..99) as English words, e.g. 42 -> "forty-two".
func NumberToWords(n int) (string, error) {
	if n < 0 || n > 99 {
		return "", fmt.Errorf("number out of range: %d", n)
	}
	if n < len(smallNumbers) {
		return smallNumbers[n], nil
	}
	if n%10 == 0 {
		return tens[n/10], nil
	}
	return tens[n/10] + "-" + smallNumbers[n%10], nil
}

// WordsToNumber is the inverse of NumberToWords. Case and surrounding
// whitespace are ignored, "forty two" is accepted as well as "forty-two".
func WordsToNumber(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty input")
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == ' '
	})

	switch len(parts) {
	case 1:
		if n, ok := lookupSmall(parts[0]); ok {
			return n, nil
		}
		if n, ok := lookupTens(parts[0]); ok {
			return n, nil
		}
	case 2:
		t, ok := lookupTens(parts[0])
		if !ok {
			break
		}
		u, ok := lookupSmall(parts[1])
		if !ok || u == 0 || u > 9 {
			break
		}
		return t + u, nil
	}

	return 0, fmt.Errorf("not a number: %q", s)
}

func lookupSmall(w string) (int, bool) {
	for i, v := range smallNumbers {
		if v == w {
			return i, true
		}
	}
	return 0, false
}

func lookupTens(w string) (int, bool) {
	for i, v := range tens {
		if v != "" && v == w {
			return i * 10, true
		}
	}
	return 0, false
}
