package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/marcsello/joingate-bot/api"
	"github.com/marcsello/joingate-bot/challenge"
	"github.com/marcsello/joingate-bot/db"
	"github.com/marcsello/joingate-bot/utils"
)

const validToken = "s3cret"

type stubChallenges struct {
	reapCalls int
	reapErr   error
	pending   []challenge.PendingChallenge
}

func (s *stubChallenges) Reap(context.Context) (challenge.ReapResult, error) {
	s.reapCalls++
	return challenge.ReapResult{Scanned: 3, Reaped: 1, Failed: 1}, s.reapErr
}

func (s *stubChallenges) Pending(context.Context) ([]challenge.PendingChallenge, error) {
	return s.pending, nil
}

type stubRepo struct {
	decisions   []db.JoinDecision
	gotChatID   int64
	gotLimit    int
	tokenLookup error
}

func (r *stubRepo) GetAndUpdateTokenByHash(_ context.Context, hash []byte) (*db.Token, error) {
	if r.tokenLookup != nil {
		return nil, r.tokenLookup
	}
	if string(hash) == string(utils.TokenHash(validToken)) {
		return &db.Token{Name: "cron"}, nil
	}
	return nil, nil
}

func (r *stubRepo) GetDecisions(_ context.Context, chatID int64, limit int) ([]db.JoinDecision, error) {
	r.gotChatID, r.gotLimit = chatID, limit
	return r.decisions, nil
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func makeRouter(c *stubChallenges, r *stubRepo) http.Handler {
	gin.SetMode(gin.TestMode)
	return api.NewRouter(api.Config{Challenges: c, Repo: r})
}

func TestAuth(t *testing.T) {
	tests := map[string]struct {
		token   string
		repoErr error
		want    int
	}{
		"missing token":  {token: "", want: http.StatusUnauthorized},
		"unknown token":  {token: "nope", want: http.StatusUnauthorized},
		"valid token":    {token: validToken, want: http.StatusOK},
		"database error": {token: validToken, repoErr: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			c := &stubChallenges{}
			h := makeRouter(c, &stubRepo{tokenLookup: tt.repoErr})

			w := do(t, h, http.MethodPost, "/reap", tt.token)
			require.Equal(t, tt.want, w.Code)
			require.NotEmpty(t, w.Header().Get("X-Request-ID"))

			if tt.want != http.StatusOK {
				require.Zero(t, c.reapCalls)
			}
		})
	}
}

func TestReap(t *testing.T) {
	c := &stubChallenges{}
	h := makeRouter(c, &stubRepo{})

	w := do(t, h, http.MethodPost, "/reap", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"scanned":3,"expired_prompts":1,"failed":1}`, w.Body.String())
	require.Equal(t, 1, c.reapCalls)

	c.reapErr = errors.New("redis down")
	w = do(t, h, http.MethodPost, "/reap", validToken)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChallenges(t *testing.T) {
	c := &stubChallenges{pending: []challenge.PendingChallenge{
		{ChatID: -100, MessageID: 5, UserID: 7, Remaining: 90 * time.Second},
	}}
	h := makeRouter(c, &stubRepo{})

	w := do(t, h, http.MethodGet, "/challenges", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"challenges":[{"chat_id":-100,"message_id":5,"user_id":7,"remaining_seconds":90}]}`, w.Body.String())
}

func TestDecisions(t *testing.T) {
	r := &stubRepo{decisions: []db.JoinDecision{{ID: 1, ChatID: -100, UserID: 7, Approved: true, Answer: "8", Expected: "8"}}}
	h := makeRouter(&stubChallenges{}, r)

	w := do(t, h, http.MethodGet, "/decisions?chat_id=-100&limit=10", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(-100), r.gotChatID)
	require.Equal(t, 10, r.gotLimit)

	var resp api.DecisionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Decisions, 1)
	require.True(t, resp.Decisions[0].Approved)

	w = do(t, h, http.MethodGet, "/decisions", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(0), r.gotChatID)
	require.Equal(t, 50, r.gotLimit)

	for _, bad := range []string{"/decisions?chat_id=x", "/decisions?limit=0", "/decisions?limit=abc"} {
		w = do(t, h, http.MethodGet, bad, validToken)
		require.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestMetricsUnauthenticated(t *testing.T) {
	h := makeRouter(&stubChallenges{}, &stubRepo{})

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
}
