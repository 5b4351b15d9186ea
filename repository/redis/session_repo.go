package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

const defaultPrefix = "clubportal:"

type sessionRepository struct {
	client redislib.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. Each session lives under its
// own key with a TTL; a per-user set indexes them so an account can be signed out everywhere.
func NewSessionRepository(client redislib.UniversalClient, ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{
		client: client,
		prefix: defaultPrefix,
		ttl:    ttl,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	result, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Unavailable(err)
	}

	var session domain.Session
	if err := json.Unmarshal(result, &session); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" || session.UserID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = r.ttl
	}

	index := r.userKey(session.UserID)
	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), payload, ttl)
		pipe.SAdd(ctx, index, session.ID)
		pipe.Expire(ctx, index, r.ttl)
		return nil
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	session, err := r.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(id))
		pipe.SRem(ctx, r.userKey(session.UserID), id)
		return nil
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (r *sessionRepository) Extend(ctx context.Context, id string, expiresAt time.Time) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = r.ttl
		expiresAt = time.Now().Add(ttl)
	}
	session.ExpiresAt = expiresAt
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	indexTTL := r.ttl
	if ttl > indexTTL {
		indexTTL = ttl
	}

	var set *redislib.BoolCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		set = pipe.SetXX(ctx, r.sessionKey(id), payload, ttl)
		pipe.Expire(ctx, r.userKey(session.UserID), indexTTL)
		return nil
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	// The key vanished between Get and SetXX.
	if !set.Val() {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) RevokeUser(ctx context.Context, userID string) (int, error) {
	index := r.userKey(userID)
	ids, err := r.client.SMembers(ctx, index).Result()
	if err != nil {
		return 0, domain.Unavailable(err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.sessionKey(id))
	}
	keys = append(keys, index)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return 0, domain.Unavailable(err)
	}
	return len(ids), nil
}

func (r *sessionRepository) sessionKey(id string) string {
	return r.prefix + "session:" + id
}

func (r *sessionRepository) userKey(userID string) string {
	return r.prefix + "user_sessions:" + userID
}
