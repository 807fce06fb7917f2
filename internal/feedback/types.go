// internal/feedback/types.go
//
// Core type definitions for feedback patterns.
// Defines:
//   - Mark:    per-letter result of a guess (absent/present/correct).
//   - Pattern: the ordered marks for a whole guess.
//   - Code:    compact base-3 encoding of a Pattern (one of 3^L values).

package feedback

import (
	"errors"
	"strings"
)

// MaxLength is the longest word the compact Code can represent in 16 bits
// (3^10 = 59049).
const MaxLength = 10

// ErrInvalidInput is returned for malformed words and patterns.
// It is never coerced away: callers get it wrapped with detail.
var ErrInvalidInput = errors.New("invalid input")

// Mark represents the evaluation result for a single letter in a guess.
// The numeric values are the digits of the textual form ("20100").
type Mark uint8

const (
	Absent  Mark = iota // letter not in the answer (or all copies already used)
	Present             // letter in the answer, different position
	Correct             // letter in the correct position
)

// String returns the lowercase name of the mark.
func (m Mark) String() string {
	switch m {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Correct:
		return "correct"
	}
	return "unknown"
}

// Pattern is the feedback for one guess, one Mark per position.
type Pattern []Mark

// Code is the base-3 encoding Σ mark[i]·3^i of a Pattern.
type Code uint16

// String renders the pattern as a digit string, e.g. "20100".
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, m := range p {
		b.WriteByte('0' + byte(m))
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler using the digit form.
func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Length is not checked
// here; use Validate once the word length is known.
func (p *Pattern) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	q, err := Parse(s, len(s))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// Solved reports whether every mark is Correct.
func (p Pattern) Solved() bool {
	if len(p) == 0 {
		return false
	}
	for _, m := range p {
		if m != Correct {
			return false
		}
	}
	return true
}

// Code packs the pattern into its compact form.
func (p Pattern) Code() Code {
	var c, mul Code = 0, 1
	for _, m := range p {
		c += Code(m) * mul
		mul *= 3
	}
	return c
}

// Decode expands a compact code back into a Pattern of the given length.
func Decode(c Code, length int) Pattern {
	p := make(Pattern, length)
	for i := 0; i < length; i++ {
		p[i] = Mark(c % 3)
		c /= 3
	}
	return p
}

// SolvedCode is the all-Correct code for words of the given length.
func SolvedCode(length int) Code {
	return Code(pow3[length] - 1)
}

// Space is the number of distinct codes for words of the given length.
func Space(length int) int { return pow3[length] }

var pow3 = func() [MaxLength + 1]int {
	var t [MaxLength + 1]int
	t[0] = 1
	for i := 1; i <= MaxLength; i++ {
		t[i] = t[i-1] * 3
	}
	return t
}()
