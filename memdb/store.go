package memdb

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// JoinKeyPrefix isolates join challenges from anything else living in the same database
	JoinKeyPrefix = "JOIN:"

	scanBatch = 100
)

// Entry is a key seen by List. TTL is negative when redis could not report
// the remaining time (key without expiry, or removed meanwhile).
type Entry struct {
	Key string
	TTL time.Duration
}

// Store is a TTL key-value store backed by redis.
type Store struct {
	client redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Put creates or overwrites key, which expires after ttl.
func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Delete removes key. Deleting a missing key is not an error, the returned
// bool tells whether this call was the one that removed it.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List lazily walks every key starting with prefix along with its remaining
// TTL. The sequence can be consumed once, keys may show up more than once.
func (s *Store) List(ctx context.Context, prefix string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		it := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()
		for it.Next(ctx) {
			key := it.Val()

			ttl, err := s.client.TTL(ctx, key).Result()
			if err != nil {
				yield(Entry{}, fmt.Errorf("ttl of %s: %w", key, err))
				return
			}
			if ttl < 0 {
				ttl = -1
			}

			if !yield(Entry{Key: key, TTL: ttl}, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("scan: %w", err))
		}
	}
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ChallengeKey is the key of the pending challenge attached to a prompt message.
func ChallengeKey(chatID int64, messageID int) string {
	return JoinKeyPrefix + strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(messageID)
}

func ParseChallengeKey(key string) (chatID int64, messageID int, ok bool) {
	rest, found := strings.CutPrefix(key, JoinKeyPrefix)
	if !found {
		return 0, 0, false
	}

	chatStr, msgStr, found := strings.Cut(rest, ":")
	if !found {
		return 0, 0, false
	}

	var err error
	chatID, err = strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	messageID, err = strconv.Atoi(msgStr)
	if err != nil {
		return 0, 0, false
	}

	return chatID, messageID, true
}
