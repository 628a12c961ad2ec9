// internal/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/models"
)

const keyPrefix = "concierge:session:"

// RedisStore keeps sessions as JSON blobs with a sliding TTL: every save
// refreshes the expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: log}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, stderrors.NewSessionLoadFailedError(sessionID, err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, stderrors.NewSessionLoadFailedError(sessionID, err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return stderrors.NewSessionSaveFailedError(sess.ID, err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return stderrors.NewSessionSaveFailedError(sess.ID, err)
	}

	s.logger.Debug("session saved", map[string]interface{}{
		"session_id": sess.ID,
		"state":      sess.State,
	})
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
