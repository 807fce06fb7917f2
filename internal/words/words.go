// internal/words/words.go
//
// Vocabulary management for the solver.
//
// Responsibilities:
//   - Hold the two ordered pools: guesses (every typeable word) and answers
//     (every possible hidden word). Answers are always merged into guesses.
//   - Validate uniform length and the a–z alphabet.
//   - Provide index lookups and a content fingerprint used to key caches.
//
// Word Lists:
//   - "answers": canonical solutions.
//   - "allowed": valid guesses (answers appended when missing).
//
// A Vocabulary is immutable after New; share it freely.

package words

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// ErrUnknownWord is returned for words outside the guess or answer pool.
var ErrUnknownWord = fmt.Errorf("%w: unknown word", feedback.ErrInvalidInput)

// Vocabulary is one (guess pool, answer pool) pair.
type Vocabulary struct {
	guesses  []string
	answers  []string
	length   int
	guessIdx map[string]int
	answerIx map[string]int
	fp       [blake2b.Size256]byte
}

// New validates and indexes the pools. Duplicates are dropped (first one
// wins) and every answer is guaranteed to be a valid guess.
func New(allowed, answers []string) (*Vocabulary, error) {
	if len(answers) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	v := &Vocabulary{
		length:   len(normalize(answers[0])),
		guessIdx: make(map[string]int, len(allowed)+len(answers)),
		answerIx: make(map[string]int, len(answers)),
	}

	for _, w := range answers {
		w = normalize(w)
		if err := v.check(w); err != nil {
			return nil, err
		}
		if _, dup := v.answerIx[w]; dup {
			continue
		}
		v.answerIx[w] = len(v.answers)
		v.answers = append(v.answers, w)
	}

	// Ensure all answers are also allowed, after the allowed list itself.
	for _, list := range [][]string{allowed, v.answers} {
		for _, w := range list {
			w = normalize(w)
			if err := v.check(w); err != nil {
				return nil, err
			}
			if _, dup := v.guessIdx[w]; dup {
				continue
			}
			v.guessIdx[w] = len(v.guesses)
			v.guesses = append(v.guesses, w)
		}
	}

	v.fp = fingerprint(v.length, v.answers, v.guesses)
	return v, nil
}

func (v *Vocabulary) check(w string) error {
	if err := feedback.CheckWord(w); err != nil {
		return err
	}
	if len(w) != v.length {
		return fmt.Errorf("%w: word %q has length %d, vocabulary uses %d", feedback.ErrInvalidInput, w, len(w), v.length)
	}
	return nil
}

// fingerprint hashes the word length and both pools in order. Pool order
// matters because caches are addressed by index.
func fingerprint(length int, answers, guesses []string) [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(length)})
	for _, w := range answers {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	h.Write([]byte{0})
	for _, w := range guesses {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	var out [blake2b.Size256]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Length is the shared word length L.
func (v *Vocabulary) Length() int { return v.length }

// Guesses returns the guess pool. Callers must not modify it.
func (v *Vocabulary) Guesses() []string { return v.guesses }

// Answers returns the answer pool. Callers must not modify it.
func (v *Vocabulary) Answers() []string { return v.answers }

// Guess returns the guess word at index i.
func (v *Vocabulary) Guess(i int) string { return v.guesses[i] }

// Answer returns the answer word at index i.
func (v *Vocabulary) Answer(i int) string { return v.answers[i] }

// GuessIndex looks up w in the guess pool.
func (v *Vocabulary) GuessIndex(w string) (int, bool) {
	i, ok := v.guessIdx[normalize(w)]
	return i, ok
}

// AnswerIndex looks up w in the answer pool.
func (v *Vocabulary) AnswerIndex(w string) (int, bool) {
	i, ok := v.answerIx[normalize(w)]
	return i, ok
}

// IsAllowed reports whether w is a valid guess.
func (v *Vocabulary) IsAllowed(w string) bool {
	_, ok := v.GuessIndex(w)
	return ok
}

// IsAnswer reports whether w is an answer word.
func (v *Vocabulary) IsAnswer(w string) bool {
	_, ok := v.AnswerIndex(w)
	return ok
}

// Fingerprint returns the raw content hash.
func (v *Vocabulary) Fingerprint() [blake2b.Size256]byte { return v.fp }

// Key is the hex fingerprint, used as the cache store key.
func (v *Vocabulary) Key() string { return hex.EncodeToString(v.fp[:]) }

// Stats returns counts of loaded words: (answers, guesses).
func (v *Vocabulary) Stats() (answersCount int, guessesCount int) {
	return len(v.answers), len(v.guesses)
}

func normalize(w string) string {
	return strings.TrimSpace(strings.ToLower(w))
}
