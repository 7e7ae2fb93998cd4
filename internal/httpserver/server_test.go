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

	"github.com/robalobadob/kkeutmal/internal/dict"
	"github.com/robalobadob/kkeutmal/internal/game"
	"github.com/robalobadob/kkeutmal/internal/store"
)

type downDict struct{}

func (downDict) WordExists(context.Context, string) (bool, error) {
	return false, dict.ErrLookupUnavailable
}
func (downDict) WordsStartingWith(context.Context, string, int) ([]string, error) {
	return nil, dict.ErrLookupUnavailable
}

// slowDict delays every lookup unless the request context ends first.
type slowDict struct {
	dict.Client
	delay time.Duration
}

func (s slowDict) wait(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s slowDict) WordExists(ctx context.Context, word string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	return s.Client.WordExists(ctx, word)
}

func (s slowDict) WordsStartingWith(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Client.WordsStartingWith(ctx, prefix, limit)
}

func newTestServer(t *testing.T, d dict.Client) *httptest.Server {
	return newTestServerWithTimeout(t, d, 0)
}

func newTestServerWithTimeout(t *testing.T, d dict.Client, timeout time.Duration) *httptest.Server {
	t.Helper()
	eng := game.NewEngine(d, game.WithChooser(game.ChooserFunc(func(int) int { return 0 })))
	srv := New(store.NewMemoryStore(), eng, Options{
		ClientOrigin:   "http://localhost:5173",
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		RequestTimeout: timeout,
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func newGame(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := do(t, ts, http.MethodPost, "/game/new", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	assert.NotEmpty(t, body["gameId"])
	return tok
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic())

	resp, body := do(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGameFlow(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic("학교", "교실", "실수", "수학", "학생", "교사"))
	tok := newGame(t, ts)

	resp, body := do(t, ts, http.MethodGet, "/game", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", body["status"])

	resp, _ = do(t, ts, http.MethodGet, "/game/hints", tok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no hints before the first move")

	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "학교"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["accepted"])
	assert.Equal(t, "교실", body["opponentReply"])

	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "무지개"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "chain_mismatch", body["reason"])
	assert.NotEmpty(t, body["message"])

	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "ㅋㅋㅋ"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invalid_format", body["reason"])

	resp, body = do(t, ts, http.MethodGet, "/game/hints", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"실수"}, body["hints"])

	// 실수 → 수학 → opponent has 학교 (used) and 학생
	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "실수"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "수학", body["opponentReply"])

	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "학생"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := body["session"].(map[string]any)
	assert.Equal(t, "ended", session["status"])
	assert.Equal(t, "user", session["winner"])

	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "생일"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "game_over", body["reason"])

	resp, body = do(t, ts, http.MethodPost, "/game/reset", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", body["status"])
	assert.Empty(t, body["history"])
}

func TestMove_LookupUnavailable(t *testing.T) {
	ts := newTestServer(t, downDict{})
	tok := newGame(t, ts)

	resp, body := do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "학교"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, "lookup_unavailable", body["reason"])
	assert.Equal(t, true, body["retryable"])

	resp, body = do(t, ts, http.MethodGet, "/game", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", body["status"], "rejected move leaves the session unchanged")
}

func TestMove_RequestTimeoutCoversBothLookups(t *testing.T) {
	slow := slowDict{Client: dict.NewStatic("학교", "교실"), delay: 100 * time.Millisecond}

	ts := newTestServerWithTimeout(t, slow, 2*time.Second)
	tok := newGame(t, ts)
	resp, body := do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "학교"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "교실", body["opponentReply"])

	// deadline expires during the reply lookup
	ts = newTestServerWithTimeout(t, slow, 150*time.Millisecond)
	tok = newGame(t, ts)
	resp, body = do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "학교"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "lookup_unavailable", body["reason"])
}

func TestMove_NotInDictionary(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic("학교"))
	tok := newGame(t, ts)

	resp, body := do(t, ts, http.MethodPost, "/game/move", tok, moveReq{Word: "무지개"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "not_in_dictionary", body["reason"])
	assert.Nil(t, body["retryable"])
}

func TestMove_BadJSON(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic())
	tok := newGame(t, ts)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/game/move", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionTokenRequired(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic())

	resp, _ := do(t, ts, http.MethodGet, "/game", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodGet, "/game", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other := tokenIssuer{secret: []byte("other-secret"), ttl: time.Hour}
	forged, _, err := other.sign("whatever")
	require.NoError(t, err)
	resp, _ = do(t, ts, http.MethodGet, "/game", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	valid := tokenIssuer{secret: []byte("test-secret"), ttl: time.Hour}
	unknown, _, err := valid.sign("no-such-session")
	require.NoError(t, err)
	resp, _ = do(t, ts, http.MethodGet, "/game", unknown, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionCookie(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic())

	resp, err := ts.Client().Post(ts.URL+"/game/new", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/game", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie.Value})
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, dict.NewStatic())
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/game/move", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
