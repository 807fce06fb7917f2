// assets/embed.go
//
// Embedded defaults so the solver runs without any configured files:
//   - answers.txt / allowed.txt: small default vocabulary.
//   - sql/*.sql: SQLite migrations, applied in lexical order.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed allowed.txt answers.txt sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// AnswersList returns the embedded answer pool.
func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

// AllowedList returns the embedded allowed-guess list (answers excluded).
func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}

// Migrations returns the embedded migration directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
