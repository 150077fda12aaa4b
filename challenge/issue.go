package challenge

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/marcsello/joingate-bot/memdb"
	"github.com/marcsello/joingate-bot/metrics"
)

type JoinRequest struct {
	ChatID    int64
	UserID    int64
	FirstName string
}

// HandleJoinRequest sends a quiz to the chat and remembers who it belongs to.
// Requests from chats not on the allow-list are ignored. A failed send is
// returned as is, the join request stays open on the platform side. If the
// record cannot be stored the prompt is withdrawn again.
func (s *Service) HandleJoinRequest(ctx context.Context, req JoinRequest) error {
	allowed, err := s.c.AllowList.IsChatAllowed(ctx, req.ChatID)
	if err != nil {
		return fmt.Errorf("check allow-list: %w", err)
	}
	if !allowed {
		log.WithFields(log.Fields{"chat": req.ChatID, "user": req.UserID}).Debug("CHALLENGE: join request in unmoderated chat ignored")
		return nil
	}

	q := s.newQuiz()
	text := renderPrompt(req, q, s.answerWindow())

	var messageID int
	messageID, err = s.c.Messenger.SendPrompt(ctx, req.ChatID, text, q.Choices())
	if err != nil {
		return fmt.Errorf("send prompt: %w", err)
	}

	key := memdb.ChallengeKey(req.ChatID, messageID)
	err = s.c.Store.Put(ctx, key, strconv.FormatInt(req.UserID, 10), s.c.TTL)
	if err != nil {
		// without a record nothing would ever remove the prompt
		if delErr := s.c.Messenger.DeleteMessage(ctx, req.ChatID, messageID); delErr != nil {
			log.WithError(delErr).WithFields(log.Fields{"chat": req.ChatID, "message": messageID}).Warn("CHALLENGE: could not withdraw unrecorded prompt")
		}
		return fmt.Errorf("store challenge %s: %w", key, err)
	}

	metrics.ChallengesIssued.Inc()
	log.WithFields(log.Fields{"chat": req.ChatID, "user": req.UserID, "message": messageID}).Info("CHALLENGE: issued")
	return nil
}
