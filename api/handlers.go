package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const defaultDecisionLimit = 50

type handlers struct {
	c Config
}

// handleReap runs one reaper sweep, so an external scheduler can drive the reaper
func (h *handlers) handleReap(ctx *gin.Context) {
	res, err := h.c.Challenges.Reap(ctx.Request.Context())
	if err != nil {
		handleInternalError(ctx, err)
		return
	}

	if token := getTokenFromContext(ctx); token != nil {
		log.WithFields(log.Fields{"token": token.Name, "reaped": res.Reaped}).Info("API: reap triggered")
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *handlers) handleChallenges(ctx *gin.Context) {
	pending, err := h.c.Challenges.Pending(ctx.Request.Context())
	if err != nil {
		handleInternalError(ctx, err)
		return
	}

	resp := ChallengesResponse{Challenges: make([]ChallengeRepr, len(pending))}
	for i, p := range pending {
		resp.Challenges[i] = PendingToRepr(p)
	}
	ctx.JSON(http.StatusOK, resp)
}

func (h *handlers) handleDecisions(ctx *gin.Context) {
	var chatID int64
	if s := ctx.Query("chat_id"); s != "" {
		var err error
		chatID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			handleUserError(ctx, fmt.Errorf("invalid chat_id"))
			return
		}
	}

	limit := defaultDecisionLimit
	if s := ctx.Query("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit <= 0 {
			handleUserError(ctx, fmt.Errorf("invalid limit"))
			return
		}
	}

	decisions, err := h.c.Repo.GetDecisions(ctx.Request.Context(), chatID, limit)
	if err != nil {
		handleInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, DecisionsResponse{Decisions: decisions})
}
