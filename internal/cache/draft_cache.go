package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

// draftTTL keeps abandoned drafts from accumulating forever. A week is far
// past any realistic gap between starting an answer and coming back to it.
const draftTTL = 7 * 24 * time.Hour

// DraftStore persists in-progress answer text durably, so an accidental
// reload mid-answer loses at most one debounce window of typing. Writes are
// last-write-wins; the session service is the single writer per key.
type DraftStore interface {
	// Save persists text under the user-scoped draft key, overwriting any
	// prior value.
	Save(ctx context.Context, userID string, key model.DraftKey, text string) error
	// Load returns the stored text and whether a draft exists.
	Load(ctx context.Context, userID string, key model.DraftKey) (string, bool, error)
	// Clear removes the draft. Clearing an absent key is not an error.
	Clear(ctx context.Context, userID string, key model.DraftKey) error
}

type draftStore struct {
	client *redis.Client
}

// NewDraftStore creates a Redis-backed draft store.
func NewDraftStore(client *redis.Client) DraftStore {
	return &draftStore{client: client}
}

func (s *draftStore) redisKey(userID string, key model.DraftKey) string {
	return fmt.Sprintf("user:%s:%s", userID, key)
}

func (s *draftStore) Save(ctx context.Context, userID string, key model.DraftKey, text string) error {
	return s.client.Set(ctx, s.redisKey(userID, key), text, draftTTL).Err()
}

func (s *draftStore) Load(ctx context.Context, userID string, key model.DraftKey) (string, bool, error) {
	text, err := s.client.Get(ctx, s.redisKey(userID, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (s *draftStore) Clear(ctx context.Context, userID string, key model.DraftKey) error {
	return s.client.Del(ctx, s.redisKey(userID, key)).Err()
}
