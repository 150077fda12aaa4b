package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marcsello/joingate-bot/db"
	"github.com/marcsello/joingate-bot/utils"
	log "github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	tokenKey        = "token"
)

func requestIDMiddleware(ctx *gin.Context) {
	id := ctx.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	ctx.Set(requestIDHeader, id)
	ctx.Header(requestIDHeader, id)
	ctx.Next()
}

func loggerMiddleware(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()

	entry := log.WithFields(log.Fields{
		"method":     ctx.Request.Method,
		"path":       ctx.Request.URL.Path,
		"status":     ctx.Writer.Status(),
		"latency":    time.Since(start),
		"request_id": ctx.GetString(requestIDHeader),
	})
	if len(ctx.Errors) > 0 {
		entry.WithError(ctx.Errors.Last()).Error("API: request failed")
		return
	}
	entry.Debug("API: request served")
}

func getTokenFromContext(ctx *gin.Context) *db.Token {
	tInt, ok := ctx.Get(tokenKey)
	if !ok {
		return nil
	}

	t, ok := tInt.(*db.Token)
	if !ok {
		return nil
	}

	return t
}

func (h *handlers) requireValidTokenMiddleware(ctx *gin.Context) {

	key, ok := parseAuthHeader(ctx, "Bearer")
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	token, err := h.c.Repo.GetAndUpdateTokenByHash(ctx.Request.Context(), utils.TokenHash(key))
	if err != nil {
		handleInternalError(ctx, err)
		return
	}
	if token == nil {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ctx.Set(tokenKey, token)
	ctx.Next()
}

func parseAuthHeader(ctx *gin.Context, type_ string) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}

	if parts[0] != type_ {
		return "", false
	}

	return parts[1], true
}
