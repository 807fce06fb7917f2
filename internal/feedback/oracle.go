// internal/feedback/oracle.go
//
// The feedback oracle: compares a guess with an answer.
// Responsibilities:
//   - Validate words (same length, 1..MaxLength, lowercase a–z).
//   - Score guesses using the classic two-pass algorithm.
//   - Parse digit-string patterns supplied by players or live games.
//
// Notes:
//   - ComputeCode is the allocation-free path used by the pattern cache;
//     it skips validation and expects words already checked by the
//     words package.
package feedback

import (
	"fmt"
	"strings"
)

// Compute validates both words and returns the feedback pattern of guess
// against answer.
func Compute(guess, answer string) (Pattern, error) {
	if err := checkPair(guess, answer); err != nil {
		return nil, err
	}
	return Decode(ComputeCode(guess, answer), len(guess)), nil
}

// ComputeCode implements the standard two-pass scoring algorithm and
// returns the compact code.
//
// Pass 1:
//   - Mark exact matches Correct.
//   - Count remaining (non-correct) answer letters.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for that
//     letter, mark Present and decrement the count; otherwise Absent.
//
// Correct marks are resolved first so a letter guessed twice but present once
// yields exactly one Correct/Present and one Absent.
func ComputeCode(guess, answer string) Code {
	n := len(guess)
	var marks [MaxLength]Mark
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			marks[i] = Correct
		} else {
			counts[answer[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if marks[i] == Correct {
			continue
		}
		j := guess[i] - 'a'
		if counts[j] > 0 {
			marks[i] = Present
			counts[j]--
		}
	}

	var c, mul Code = 0, 1
	for i := 0; i < n; i++ {
		c += Code(marks[i]) * mul
		mul *= 3
	}
	return c
}

// Parse reads a digit-string pattern ("0" absent, "1" present, "2" correct)
// of exactly length marks.
func Parse(s string, length int) (Pattern, error) {
	s = strings.TrimSpace(s)
	if len(s) != length {
		return nil, fmt.Errorf("%w: pattern %q has length %d, want %d", ErrInvalidInput, s, len(s), length)
	}
	p := make(Pattern, length)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			p[i] = Absent
		case '1':
			p[i] = Present
		case '2':
			p[i] = Correct
		default:
			return nil, fmt.Errorf("%w: pattern %q has mark %q at %d", ErrInvalidInput, s, s[i], i)
		}
	}
	return p, nil
}

// Validate checks that p has the expected length and only known marks.
func (p Pattern) Validate(length int) error {
	if len(p) != length {
		return fmt.Errorf("%w: pattern has length %d, want %d", ErrInvalidInput, len(p), length)
	}
	for i, m := range p {
		if m > Correct {
			return fmt.Errorf("%w: unknown mark %d at %d", ErrInvalidInput, m, i)
		}
	}
	return nil
}

// CheckWord reports whether w is a usable word: 1..MaxLength lowercase a–z.
func CheckWord(w string) error {
	if len(w) == 0 || len(w) > MaxLength {
		return fmt.Errorf("%w: word %q has length %d", ErrInvalidInput, w, len(w))
	}
	if !isAlpha(w) {
		return fmt.Errorf("%w: word %q is not lowercase a-z", ErrInvalidInput, w)
	}
	return nil
}

func checkPair(guess, answer string) error {
	if len(guess) != len(answer) {
		return fmt.Errorf("%w: guess %q and answer %q differ in length", ErrInvalidInput, guess, answer)
	}
	if err := CheckWord(guess); err != nil {
		return err
	}
	return CheckWord(answer)
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
