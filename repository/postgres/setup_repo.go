package postgres

import (
	"context"

	"github.com/fastygo/clubportal/repository"
)

type setupRepository struct {
	db DB
}

func NewSetupRepository(db DB) repository.SetupRepository {
	return &setupRepository{db: db}
}

func (r *setupRepository) IsComplete(ctx context.Context) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM system_setup WHERE id = 1)`
	var done bool
	if err := conn(ctx, r.db).QueryRow(ctx, query).Scan(&done); err != nil {
		return false, storeError(err, nil)
	}
	return done, nil
}

// Claim inserts the singleton row. Concurrent claims serialize on its primary key and exactly
// one of them reports true.
func (r *setupRepository) Claim(ctx context.Context, adminID string) (bool, error) {
	const query = `INSERT INTO system_setup (id, admin_id) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`
	tag, err := conn(ctx, r.db).Exec(ctx, query, adminID)
	if err != nil {
		return false, storeError(err, nil)
	}
	return tag.RowsAffected() == 1, nil
}
