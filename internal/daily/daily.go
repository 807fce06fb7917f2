// internal/daily/daily.go
//
// Deterministic puzzle-of-the-day selection.
// Every instance sharing DAILY_SALT and the same answer list agrees on the
// answer for a given UTC date, without storing anything.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Puzzle is the answer chosen for one day.
type Puzzle struct {
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
	Answer    string `json:"-"`
}

// For returns the puzzle of the day containing t.
func For(t time.Time, salt string, vocab *words.Vocabulary) Puzzle {
	idx := WordIndex(t, salt, len(vocab.Answers()))
	return Puzzle{Date: DateKey(t), WordIndex: idx, Answer: vocab.Answer(idx)}
}
