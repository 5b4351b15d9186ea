package repository

import "context"

type SetupRepository interface {
	IsComplete(ctx context.Context) (bool, error)
	// Claim marks setup as done for adminID. It reports false when setup was already claimed.
	Claim(ctx context.Context, adminID string) (bool, error)
}
