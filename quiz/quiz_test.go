package quiz

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_RoundTrip(t *testing.T) {
	for a := 0; a < MaxAddend; a++ {
		for b := 0; b < MaxAddend; b++ {
			q := Quiz{A: a, B: b}
			require.Equal(t, q, FromText(q.Encode()), "round trip of %d + %d", a, b)
		}
	}
}

func TestEncode_Example(t *testing.T) {
	q := Quiz{A: 3, B: 5}
	require.Equal(t, "three + five", q.Encode())
	require.Equal(t, 8, q.Answer())
	require.Equal(t, Quiz{A: 3, B: 5}, FromText("three + five"))
}

func TestNew_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		q := New()
		require.GreaterOrEqual(t, q.A, 0)
		require.Less(t, q.A, MaxAddend)
		require.GreaterOrEqual(t, q.B, 0)
		require.Less(t, q.B, MaxAddend)
		require.Less(t, q.Answer(), MaxAnswer)
	}
}

func TestChoices(t *testing.T) {
	for i := 0; i < 1000; i++ {
		q := New()
		answer := strconv.Itoa(q.Answer())
		choices := q.Choices()

		require.Len(t, choices, NumChoices)

		seen := make(map[string]bool)
		correct := 0
		for _, c := range choices {
			require.False(t, seen[c], "duplicate choice %s in %v", c, choices)
			seen[c] = true

			n, err := strconv.Atoi(c)
			require.NoError(t, err)
			require.GreaterOrEqual(t, n, 0)
			require.Less(t, n, MaxAnswer)

			if c == answer {
				correct++
			}
		}
		require.Equal(t, 1, correct, "exactly one choice must be the answer: %v", choices)
	}
}

func TestFromText_Lenient(t *testing.T) {
	tests := map[string]Quiz{
		"":                       {},
		"garbage":                {},
		"seven":                  {A: 7},
		"seven + banana":         {A: 7},
		"banana + seven":         {B: 7},
		"  Twelve + NINETEEN  ":  {A: 12, B: 19},
		"zero + zero":            {},
		"thirty-one + forty two": {A: 31, B: 42},
	}

	for in, want := range tests {
		in, want := in, want
		t.Run(in, func(t *testing.T) {
			require.Equal(t, want, FromText(in))
		})
	}
}

func TestNumberToWords(t *testing.T) {
	for n := 0; n < 100; n++ {
		w, err := NumberToWords(n)
		require.NoError(t, err)

		back, err := WordsToNumber(w)
		require.NoError(t, err)
		require.Equal(t, n, back, "words: %s", w)
	}

	_, err := NumberToWords(100)
	require.Error(t, err)
	_, err = NumberToWords(-1)
	require.Error(t, err)
}

func TestWordsToNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", "twenty-zero", "twenty-twelve", "one-two", "forty-two-three", "8"} {
		_, err := WordsToNumber(in)
		require.Error(t, err, "input %q", in)
	}
}
