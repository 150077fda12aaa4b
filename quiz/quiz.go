// Package quiz generates the arithmetic challenge shown to joining users.
package quiz

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// MaxAddend is exclusive
	MaxAddend = 20
	// MaxAnswer is exclusive, every answer and every choice is below it
	MaxAnswer  = 2 * MaxAddend
	NumChoices = 4

	separator = " + "
)

type Quiz struct {
	A int
	B int
}

func New() Quiz {
	return Quiz{
		A: rand.IntN(MaxAddend),
		B: rand.IntN(MaxAddend),
	}
}

// FromText parses the output of Encode. It is lenient: any side that can not
// be parsed is taken as zero.
func FromText(s string) Quiz {
	parts := strings.SplitN(s, separator, 2)

	var q Quiz
	q.A, _ = WordsToNumber(parts[0])
	if len(parts) == 2 {
		q.B, _ = WordsToNumber(parts[1])
	}
	return q
}

func (q Quiz) Answer() int {
	return q.A + q.B
}

func (q Quiz) Encode() string {
	a, _ := NumberToWords(q.A)
	b, _ := NumberToWords(q.B)
	return a + separator + b
}

// Choices returns the correct answer mixed with NumChoices-1 distinct wrong
// ones, all rendered as decimal strings.
func (q Quiz) Choices() []string {
	answer := q.Answer()

	opts := make([]string, 0, NumChoices)
	opts = append(opts, strconv.Itoa(answer))
	for _, n := range rand.Perm(MaxAnswer) {
		if len(opts) == NumChoices {
			break
		}
		if n == answer {
			continue
		}
		opts = append(opts, strconv.Itoa(n))
	}

	rand.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts
}
