package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const secret = "test_secret"

type fixture struct {
	srv     *Server
	results *store.MemoryResults
	tables  *store.MemoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	v, err := words.New([]string{"adieu"}, []string{"crane", "slate", "trace"})
	require.NoError(t, err)
	tbl, err := cache.Build(context.Background(), v, 1)
	require.NoError(t, err)

	f := &fixture{results: store.NewMemoryResults(), tables: store.NewMemoryCache()}
	f.srv = New(solver.NewEngine(v, tbl), store.NewMemorySessions(), f.results, f.tables, Options{
		JWTSecret:   secret,
		DailySalt:   "salt",
		Strategy:    solver.Entropy,
		MaxAttempts: 6,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func status(t *testing.T, res map[string]any) map[string]any {
	t.Helper()
	st, ok := res["status"].(map[string]any)
	require.True(t, ok, "response has a status object: %v", res)
	return st
}

func TestDiagnostics(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec, body = f.do(t, http.MethodGet, "/debug/words", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, body["answers"])
	assert.EqualValues(t, 4, body["allowed"])
	assert.Equal(t, true, body["cached"])

	rec, body = f.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])

	rec, _ = f.do(t, http.MethodOptions, "/games", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGameFlow(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/games", map[string]any{"strategy": "entropy"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := body["gameId"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "awaiting_guess", status(t, body)["state"])

	_, body = f.do(t, http.MethodPost, "/games/"+id+"/next", nil, "")
	assert.Equal(t, "crane", body["guess"])
	_, body = f.do(t, http.MethodPost, "/games/"+id+"/next", nil, "")
	assert.Equal(t, "crane", body["guess"], "pending guess is stable")

	rec, body = f.do(t, http.MethodPost, "/games/"+id+"/feedback", map[string]string{"pattern": "12202"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, status(t, body)["candidateCount"])
	assert.Equal(t, []any{"trace"}, status(t, body)["remaining"])

	_, body = f.do(t, http.MethodPost, "/games/"+id+"/next", nil, "")
	assert.Equal(t, "trace", body["guess"])
	rec, body = f.do(t, http.MethodPost, "/games/"+id+"/feedback", map[string]string{"pattern": "22222"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := status(t, body)
	assert.Equal(t, "solved", st["state"])
	assert.EqualValues(t, 2, st["turn"])

	_, body = f.do(t, http.MethodGet, "/games/"+id, nil, "")
	hist := status(t, body)["history"].([]any)
	require.Len(t, hist, 2)
	assert.Equal(t, map[string]any{"guess": "crane", "pattern": "12202"}, hist[0])

	rec, body = f.do(t, http.MethodPost, "/games/"+id+"/next", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", body["error"])

	sum, err := f.results.Summary(context.Background(), "entropy")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Games)
	assert.Equal(t, map[int]int{2: 1}, sum.Distribution)
}

func TestGameErrors(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/games/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])

	rec, _ = f.do(t, http.MethodPost, "/games", map[string]any{"strategy": "random"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = f.do(t, http.MethodPost, "/games", map[string]any{"maxAttempts": -1}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, body = f.do(t, http.MethodPost, "/games", map[string]any{"strategy": "minimax", "hardMode": true}, "")
	id := body["gameId"].(string)
	assert.Equal(t, "minimax", status(t, body)["strategy"])
	assert.Equal(t, true, status(t, body)["hardMode"])

	rec, _ = f.do(t, http.MethodPost, "/games/"+id+"/feedback", map[string]string{"pattern": "22222"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "feedback before a guess")

	rec, _ = f.do(t, http.MethodPut, "/games/"+id+"/guess", map[string]string{"word": "zzzzz"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, body = f.do(t, http.MethodPut, "/games/"+id+"/guess", map[string]string{"word": "slate"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "slate", body["guess"])

	rec, _ = f.do(t, http.MethodPost, "/games/"+id+"/feedback", map[string]string{"pattern": "2x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = f.do(t, http.MethodPost, "/games/"+id+"/feedback", map[string]string{"pattern": "00000"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "inconsistent", body["error"])

	_, body = f.do(t, http.MethodGet, "/games/"+id, nil, "")
	assert.EqualValues(t, 3, status(t, body)["candidateCount"], "rejected feedback leaves the game alone")
	assert.Equal(t, "awaiting_feedback", status(t, body)["state"])

	req := httptest.NewRequest(http.MethodPost, "/games", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	f.srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSolve(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/solve", map[string]any{"answer": "trace"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"crane", "trace"}, body["guesses"])
	assert.Equal(t, "solved", status(t, body)["state"])

	rec, _ = f.do(t, http.MethodPost, "/solve", map[string]any{"answer": "adieu"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "allowed but not a possible answer")

	rec, body = f.do(t, http.MethodGet, "/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["games"])

	rec, _ = f.do(t, http.MethodGet, "/stats?strategy=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailySolve(t *testing.T) {
	f := newFixture(t)
	f.srv.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	rec, body := f.do(t, http.MethodGet, "/daily/solve", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-01", body["date"])
	assert.Contains(t, []any{"crane", "slate", "trace"}, body["answer"])
	assert.Equal(t, "solved", status(t, body)["state"])

	again, body2 := f.do(t, http.MethodGet, "/daily/solve", nil, "")
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, body["answer"], body2["answer"])

	sum, err := f.results.Summary(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Games, "one record per day and configuration")

	f.do(t, http.MethodGet, "/daily/solve?strategy=minimax", nil, "")
	sum, err = f.results.Summary(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Games)
}

func TestAdminRebuild(t *testing.T) {
	f := newFixture(t)
	before := f.srv.Engine()

	rec, _ := f.do(t, http.MethodPost, "/admin/cache/rebuild", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bad, _, err := SignToken("other_secret", "ops", RoleAdmin, 1)
	require.NoError(t, err)
	rec, _ = f.do(t, http.MethodPost, "/admin/cache/rebuild", nil, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user, _, err := SignToken(secret, "ops", "user", 1)
	require.NoError(t, err)
	rec, _ = f.do(t, http.MethodPost, "/admin/cache/rebuild", nil, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, exp, err := SignToken(secret, "ops", RoleAdmin, 1)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)
	rec, body := f.do(t, http.MethodPost, "/admin/cache/rebuild", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["saved"])
	assert.EqualValues(t, 3, body["answers"])
	assert.EqualValues(t, 4, body["guesses"])

	after := f.srv.Engine()
	assert.NotSame(t, before, after)
	assert.True(t, after.Cached())
	_, err = f.tables.Load(context.Background(), after.Vocabulary().Key())
	assert.NoError(t, err)

	_, _, err = SignToken("", "ops", RoleAdmin, 1)
	assert.Error(t, err)
}

func TestAdminDisabledWithoutSecret(t *testing.T) {
	f := newFixture(t)
	f.srv.opts.JWTSecret = ""
	admin, _, err := SignToken(secret, "ops", RoleAdmin, 1)
	require.NoError(t, err)

	rec, body := f.do(t, http.MethodPost, "/admin/cache/rebuild", nil, admin)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "admin_disabled", body["error"])
}

func TestIdleSessionsAreSwept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, body := f.do(t, http.MethodPost, "/games", nil, "")
	idle := body["gameId"].(string)
	_, body = f.do(t, http.MethodPost, "/games", nil, "")
	active := body["gameId"].(string)

	f.srv.sweepSessions(ctx)
	for _, id := range []string{idle, active} {
		rec, _ := f.do(t, http.MethodGet, "/games/"+id, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, "fresh sessions survive")
	}

	mid := time.Now()
	time.Sleep(2 * time.Millisecond)
	rec, _ := f.do(t, http.MethodPost, "/games/"+active+"/next", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	f.srv.now = func() time.Time { return mid.Add(DefaultSessionTTL) }
	f.srv.sweepSessions(ctx)

	rec, body = f.do(t, http.MethodGet, "/games/"+idle, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])
	rec, _ = f.do(t, http.MethodGet, "/games/"+active, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
