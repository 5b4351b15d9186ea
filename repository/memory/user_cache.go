// Package memory holds the identity snapshot cache that decorates the persistent user store.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

// CachedUserRepository keeps short-lived user snapshots for identity resolution. Every write
// through it drops the affected entry, so a lifecycle change is visible to the next request.
type CachedUserRepository struct {
	repository.UserRepository
	cache *expirable.LRU[string, domain.User]
}

// NewCachedUserRepository wraps next. A non-positive size or ttl disables caching.
func NewCachedUserRepository(next repository.UserRepository, size int, ttl time.Duration) *CachedUserRepository {
	r := &CachedUserRepository{UserRepository: next}
	if size > 0 && ttl > 0 {
		r.cache = expirable.NewLRU[string, domain.User](size, nil, ttl)
	}
	return r
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		if user, ok := r.cache.Get(id); ok {
			return &user, nil
		}
	}

	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Add(id, *user)
	}
	return user, nil
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user != nil {
		r.Invalidate(user.ID)
	}
	return r.UserRepository.Create(ctx, user)
}

func (r *CachedUserRepository) ApplyTransition(ctx context.Context, id string, t domain.Transition) (*domain.User, error) {
	defer r.Invalidate(id)
	return r.UserRepository.ApplyTransition(ctx, id, t)
}

func (r *CachedUserRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	defer r.Invalidate(id)
	return r.UserRepository.TouchLogin(ctx, id, at)
}

// Invalidate drops the snapshot of id.
func (r *CachedUserRepository) Invalidate(id string) {
	if r.cache != nil {
		r.cache.Remove(id)
	}
}

// Len reports the number of cached snapshots.
func (r *CachedUserRepository) Len() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}
