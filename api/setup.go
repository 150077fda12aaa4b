package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/marcsello/joingate-bot/challenge"
	"github.com/marcsello/joingate-bot/db"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/MikeTTh/env"
)

type ChallengeService interface {
	Reap(ctx context.Context) (challenge.ReapResult, error)
	Pending(ctx context.Context) ([]challenge.PendingChallenge, error)
}

type Repo interface {
	GetAndUpdateTokenByHash(ctx context.Context, tokenHashBytes []byte) (*db.Token, error)
	GetDecisions(ctx context.Context, chatID int64, limit int) ([]db.JoinDecision, error)
}

type Config struct {
	Challenges ChallengeService
	Repo       Repo

	// Debug exposes pprof under /debug/pprof
	Debug bool
}

func NewRouter(c Config) *gin.Engine {
	h := &handlers{c: c}

	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware, loggerMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if c.Debug {
		pprof.Register(router)
	}

	// this is RPC style instead of REST style
	authorized := router.Group("/", h.requireValidTokenMiddleware)
	authorized.POST("/reap", h.handleReap)
	authorized.GET("/challenges", h.handleChallenges)
	authorized.GET("/decisions", h.handleDecisions)

	return router
}

// NewServer returns the operator API server listening on API_BIND
func NewServer(c Config) *http.Server {
	return &http.Server{
		Addr:    env.String("API_BIND", ":8081"),
		Handler: NewRouter(c),
	}
}
