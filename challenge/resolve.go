package challenge

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/marcsello/joingate-bot/memdb"
	"github.com/marcsello/joingate-bot/metrics"
	"github.com/marcsello/joingate-bot/quiz"
)

// PromptMessage is the message a callback button was pressed on.
type PromptMessage struct {
	ChatID int64
	ID     int
	Text   string
}

type Callback struct {
	SenderID int64
	Data     string

	// Message is nil for callbacks not attached to a message
	Message *PromptMessage
}

// HandleCallback resolves the challenge the callback was pressed on.
//
// Unknown, expired or already consumed challenges and answers from anyone but
// the joiner are ignored without error. The record is consumed before the
// join request is decided, so of two concurrent answers only the one that
// removes the record gets to act.
func (s *Service) HandleCallback(ctx context.Context, cb Callback) error {
	if cb.Message == nil {
		return nil
	}
	msg := cb.Message
	key := memdb.ChallengeKey(msg.ChatID, msg.ID)

	joiner, found, err := s.c.Store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get challenge %s: %w", key, err)
	}
	if !found {
		return nil
	}

	if joiner != strconv.FormatInt(cb.SenderID, 10) {
		log.WithFields(log.Fields{"chat": msg.ChatID, "message": msg.ID, "user": cb.SenderID}).Debug("CHALLENGE: answer from someone else ignored")
		return nil
	}

	expected := strconv.Itoa(quiz.FromText(lastLine(msg.Text)).Answer())
	approved := cb.Data == expected

	var consumed bool
	consumed, err = s.c.Store.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("consume challenge %s: %w", key, err)
	}
	if !consumed {
		// another answer got here first
		return nil
	}

	err = s.c.Messenger.DeleteMessage(ctx, msg.ChatID, msg.ID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"chat": msg.ChatID, "message": msg.ID}).Warn("CHALLENGE: could not delete prompt")
	}

	outcome := metrics.OutcomeDeclined
	if approved {
		outcome = metrics.OutcomeApproved
		err = s.c.Messenger.ApproveJoin(ctx, msg.ChatID, cb.SenderID)
	} else {
		err = s.c.Messenger.DeclineJoin(ctx, msg.ChatID, cb.SenderID)
	}
	if err != nil {
		return fmt.Errorf("%s join request: %w", outcome, err)
	}

	metrics.ChallengesResolved.WithLabelValues(outcome).Inc()
	log.WithFields(log.Fields{"chat": msg.ChatID, "user": cb.SenderID, "outcome": outcome}).Info("CHALLENGE: resolved")

	if s.c.Auditor != nil {
		err = s.c.Auditor.RecordDecision(ctx, Decision{
			ChatID:   msg.ChatID,
			UserID:   cb.SenderID,
			Approved: approved,
			Answer:   cb.Data,
			Expected: expected,
		})
		if err != nil {
			log.WithError(err).Warn("CHALLENGE: could not record decision")
		}
	}

	return nil
}
