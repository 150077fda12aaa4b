package api

import (
	"github.com/marcsello/joingate-bot/challenge"
	"github.com/marcsello/joingate-bot/db"
)

type ChallengeRepr struct {
	ChatID           int64 `json:"chat_id"`
	MessageID        int   `json:"message_id"`
	UserID           int64 `json:"user_id"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

func PendingToRepr(p challenge.PendingChallenge) ChallengeRepr {
	return ChallengeRepr{
		ChatID:           p.ChatID,
		MessageID:        p.MessageID,
		UserID:           p.UserID,
		RemainingSeconds: int(p.Remaining.Seconds()),
	}
}

type ChallengesResponse struct {
	Challenges []ChallengeRepr `json:"challenges"`
}

type DecisionsResponse struct {
	Decisions []db.JoinDecision `json:"decisions"`
}
