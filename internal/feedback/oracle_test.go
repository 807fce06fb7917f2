package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSelfIsSolved(t *testing.T) {
	for _, w := range []string{"crane", "speed", "llama", "a", "abcdefghij"} {
		p, err := Compute(w, w)
		require.NoError(t, err)
		assert.True(t, p.Solved(), w)
		assert.Equal(t, SolvedCode(len(w)), p.Code(), w)
	}
}

func TestComputeDuplicateLetters(t *testing.T) {
	cases := []struct {
		guess, answer, want string
	}{
		// doubled e in the guess, single e in the answer
		{"speed", "abide", "00101"},
		{"speed", "erase", "10110"},
		{"crane", "trace", "12202"},
		{"trace", "crane", "02212"},
		{"slate", "trace", "00212"},
		// correct copy consumes the only remaining letter
		{"eerie", "there", "10102"},
		{"llama", "label", "21100"},
		{"allot", "label", "11100"},
	}
	for _, tc := range cases {
		t.Run(tc.guess+"/"+tc.answer, func(t *testing.T) {
			p, err := Compute(tc.guess, tc.answer)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.String())
		})
	}
}

func TestComputeNeverOverCountsPresent(t *testing.T) {
	p, err := Compute("speed", "abide")
	require.NoError(t, err)
	var hits int
	for i, m := range p {
		if "speed"[i] == 'e' && m != Absent {
			hits++
		}
	}
	assert.Equal(t, 1, hits)
}

func TestComputeRejectsBadInput(t *testing.T) {
	_, err := Compute("crane", "cranes")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Compute("CRANE", "crane")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Compute("", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCodeRoundTrip(t *testing.T) {
	for c := 0; c < Space(5); c++ {
		p := Decode(Code(c), 5)
		assert.Equal(t, Code(c), p.Code())
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("20100", 5)
	require.NoError(t, err)
	assert.Equal(t, Pattern{Correct, Absent, Present, Absent, Absent}, p)
	assert.Equal(t, "20100", p.String())

	_, err = Parse("2010", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Parse("20130", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Pattern{Correct, Absent}.Validate(2))
	assert.ErrorIs(t, Pattern{Correct}.Validate(2), ErrInvalidInput)
	assert.ErrorIs(t, Pattern{Correct, Mark(7)}.Validate(2), ErrInvalidInput)
}
