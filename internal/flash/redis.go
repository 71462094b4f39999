package flash

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionCookie = "sessionId"
	keyPrefix     = "flash:"
	redisTTL      = 10 * time.Minute
	sessionMaxAge = 24 * 60 * 60
)

// RedisStore keeps notices in a redis list keyed by an opaque session id cookie.
type RedisStore struct {
	client redis.UniversalClient
	secure bool
}

func NewRedisStore(client redis.UniversalClient, secure bool) *RedisStore {
	return &RedisStore{client: client, secure: secure}
}

func (s *RedisStore) Add(w http.ResponseWriter, r *http.Request, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}

	sessionID := s.sessionID(r)
	if sessionID == "" {
		sessionID = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	values := make([]any, len(messages))
	for i, message := range messages {
		values[i] = message
	}

	ctx := r.Context()
	key := keyPrefix + sessionID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, redisTTL)
		return nil
	})
	return err
}

func (s *RedisStore) Pop(_ http.ResponseWriter, r *http.Request) ([]string, error) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		return nil, nil
	}

	ctx := r.Context()
	key := keyPrefix + sessionID
	var messages *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		messages = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages.Val(), nil
}

func (s *RedisStore) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// Ping verifies the redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
