package challenge

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/marcsello/joingate-bot/memdb"
	"github.com/marcsello/joingate-bot/metrics"
)

type ReapResult struct {
	Scanned int `json:"scanned"`
	Reaped  int `json:"expired_prompts"`
	Failed  int `json:"failed"`
}

// Reap deletes the prompt of every challenge about to expire. The chat
// message has no expiry of its own, the store record is left alone and
// expires by itself.
func (s *Service) Reap(ctx context.Context) (ReapResult, error) {
	var res ReapResult
	for e, err := range s.c.Store.List(ctx, memdb.JoinKeyPrefix) {
		if err != nil {
			return res, fmt.Errorf("list challenges: %w", err)
		}
		res.Scanned++

		if e.TTL < 0 || e.TTL >= s.c.ReapThreshold {
			continue
		}

		chatID, messageID, ok := memdb.ParseChallengeKey(e.Key)
		if !ok {
			log.WithField("key", e.Key).Warn("REAPER: malformed key skipped")
			continue
		}

		err = s.c.Messenger.DeleteMessage(ctx, chatID, messageID)
		if err != nil {
			// most likely removed by an earlier sweep already
			res.Failed++
			metrics.ReapFailures.Inc()
			log.WithError(err).WithFields(log.Fields{"chat": chatID, "message": messageID}).Debug("REAPER: could not delete prompt")
			continue
		}

		res.Reaped++
		metrics.PromptsReaped.Inc()
	}

	return res, nil
}

// RunReaper sweeps every interval until ctx is done.
func (s *Service) RunReaper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || interval >= s.c.ReapThreshold {
		return fmt.Errorf("reaper interval (%s) must be positive and shorter than the reap threshold (%s)", interval, s.c.ReapThreshold)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			res, err := s.Reap(ctx)
			if err != nil {
				log.WithError(err).Error("REAPER: sweep failed")
				continue
			}
			log.WithFields(log.Fields{
				"scanned": res.Scanned,
				"reaped":  res.Reaped,
				"failed":  res.Failed,
			}).Debug("REAPER: sweep done")
		}
	}
}
