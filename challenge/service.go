// Package challenge gates chat join requests behind a quiz.
//
// A join request gets a prompt message with four inline choices and a
// pending record in the store, keyed by the prompt. The first answer from the
// joiner consumes the record and approves or declines the request. Prompts
// nobody answered are removed by the reaper, the records themselves expire
// in the store.
package challenge

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/marcsello/joingate-bot/memdb"
	"github.com/marcsello/joingate-bot/quiz"
)

const (
	DefaultTTL           = 10 * time.Minute
	DefaultReapThreshold = 7 * time.Minute
)

// Store is the TTL key-value store holding pending challenges.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) iter.Seq2[memdb.Entry, error]
}

// Messenger is the part of the chat platform the challenge flow talks to.
type Messenger interface {
	SendPrompt(ctx context.Context, chatID int64, text string, choices []string) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	ApproveJoin(ctx context.Context, chatID, userID int64) error
	DeclineJoin(ctx context.Context, chatID, userID int64) error
}

type AllowList interface {
	IsChatAllowed(ctx context.Context, chatID int64) (bool, error)
}

type AllowListFunc func(ctx context.Context, chatID int64) (bool, error)

func (f AllowListFunc) IsChatAllowed(ctx context.Context, chatID int64) (bool, error) {
	return f(ctx, chatID)
}

// Decision is the outcome of an answered challenge.
type Decision struct {
	ChatID   int64
	UserID   int64
	Approved bool
	Answer   string
	Expected string
}

type Auditor interface {
	RecordDecision(ctx context.Context, d Decision) error
}

type Config struct {
	Store     Store
	Messenger Messenger
	AllowList AllowList

	// Auditor is optional
	Auditor Auditor

	TTL           time.Duration
	ReapThreshold time.Duration
}

type Service struct {
	c Config

	newQuiz func() quiz.Quiz
}

func NewService(c Config) (*Service, error) {
	if c.Store == nil || c.Messenger == nil || c.AllowList == nil {
		return nil, fmt.Errorf("challenge: store, messenger and allow-list are required")
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.ReapThreshold == 0 {
		c.ReapThreshold = DefaultReapThreshold
	}
	if c.ReapThreshold >= c.TTL {
		return nil, fmt.Errorf("challenge: reap threshold (%s) must be shorter than the ttl (%s)", c.ReapThreshold, c.TTL)
	}

	return &Service{
		c:       c,
		newQuiz: quiz.New,
	}, nil
}

func (s *Service) ReapThreshold() time.Duration {
	return s.c.ReapThreshold
}

// answerWindow is how long the prompt is guaranteed to stay in the chat,
// the reaper may remove it any time after.
func (s *Service) answerWindow() time.Duration {
	return s.c.TTL - s.c.ReapThreshold
}

type PendingChallenge struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Remaining time.Duration
}

// Pending lists the challenges still waiting for an answer.
func (s *Service) Pending(ctx context.Context) ([]PendingChallenge, error) {
	pending := make([]PendingChallenge, 0)
	for e, err := range s.c.Store.List(ctx, memdb.JoinKeyPrefix) {
		if err != nil {
			return nil, fmt.Errorf("list challenges: %w", err)
		}

		chatID, messageID, ok := memdb.ParseChallengeKey(e.Key)
		if !ok {
			continue
		}

		val, found, err := s.c.Store.Get(ctx, e.Key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", e.Key, err)
		}
		if !found {
			continue // expired between the scan and now
		}
		userID, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			log.WithError(err).WithField("key", e.Key).Warn("CHALLENGE: record with invalid owner skipped")
			continue
		}

		pending = append(pending, PendingChallenge{
			ChatID:    chatID,
			MessageID: messageID,
			UserID:    userID,
			Remaining: e.TTL,
		})
	}
	return pending, nil
}
