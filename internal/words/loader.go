// internal/words/loader.go
//
// Vocabulary loading from files or embedded defaults.
//
// Initialization behavior (Load):
//   1. If both AnswersFile and AllowedFile are set, load answers from the
//      first and allowed guesses from the second.
//   2. If only AllowedFile is set, use it for both pools.
//   3. If only AnswersFile is set, use it for both pools.
//   4. If neither is set, fall back to the lists embedded in assets.
//
// Blank lines and lines starting with '#' are ignored. Anything else must be
// a valid word; malformed lines are rejected, not skipped.

package words

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
)

// Options selects the word list files. Empty paths mean "not configured".
type Options struct {
	AnswersFile string
	AllowedFile string
}

// Load builds a Vocabulary according to opts.
func Load(opts Options) (*Vocabulary, error) {
	var ansList, allowList []string
	var err error

	switch {
	case opts.AnswersFile != "" && opts.AllowedFile != "":
		if ansList, err = readWordFile(opts.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}

	case opts.AllowedFile != "":
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList

	case opts.AnswersFile != "":
		if ansList, err = readWordFile(opts.AnswersFile); err != nil {
			return nil, err
		}

	default:
		if ansList, err = assets.AnswersList(); err != nil {
			return nil, fmt.Errorf("embedded answers: %w", err)
		}
		if allowList, err = assets.AllowedList(); err != nil {
			return nil, fmt.Errorf("embedded allowed: %w", err)
		}
	}

	v, err := New(allowList, ansList)
	if err != nil {
		return nil, err
	}
	a, g := v.Stats()
	log.Debug().Int("answers", a).Int("guesses", g).Int("length", v.Length()).Msg("vocabulary loaded")
	return v, nil
}

// readWordFile loads one word per line, lowercased and trimmed.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if !isAlpha(w) {
			return nil, fmt.Errorf("%s:%d: invalid word %q", path, line, w)
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
