package postgres

import (
	"context"
	"time"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

type analyticsRepository struct {
	db DB
}

func NewAnalyticsRepository(db DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Summary(ctx context.Context, activeSince time.Time) (*domain.AnalyticsSummary, error) {
	const usersQuery = `
	SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'approved'),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE last_login_at >= $1),
		COUNT(*) FILTER (WHERE mentorship_access)
	FROM users
	WHERE status <> 'archived'
	`

	q := conn(ctx, r.db)
	summary := &domain.AnalyticsSummary{GeneratedAt: time.Now().UTC()}
	if err := q.QueryRow(ctx, usersQuery, activeSince).Scan(
		&summary.TotalUsers,
		&summary.ApprovedUsers,
		&summary.PendingUsers,
		&summary.ActiveUsers,
		&summary.MentorshipUsers,
	); err != nil {
		return nil, storeError(err, nil)
	}

	// Courses without live modules are left out. A user completed a course when their completed
	// records cover every live module of it.
	const coursesQuery = `
	WITH live AS (
		SELECT c.id AS course_id, c.title, c.order_number, COUNT(m.id) AS total
		FROM courses c
		JOIN modules m ON m.course_id = c.id AND m.archived = FALSE
		WHERE c.archived = FALSE
		GROUP BY c.id, c.title, c.order_number
	), per_user AS (
		SELECT m.course_id, p.user_id, COUNT(*) FILTER (WHERE p.completed) AS done
		FROM progress p
		JOIN modules m ON m.id = p.module_id AND m.archived = FALSE
		GROUP BY m.course_id, p.user_id
	)
	SELECT live.course_id, live.title,
		COUNT(per_user.user_id),
		COUNT(per_user.user_id) FILTER (WHERE per_user.done = live.total)
	FROM live
	LEFT JOIN per_user ON per_user.course_id = live.course_id
	GROUP BY live.course_id, live.title, live.order_number
	ORDER BY live.order_number
	`

	rows, err := q.Query(ctx, coursesQuery)
	if err != nil {
		return nil, storeError(err, nil)
	}
	defer rows.Close()

	summary.CourseStats = make([]domain.CourseStats, 0)
	for rows.Next() {
		var stats domain.CourseStats
		if err := rows.Scan(&stats.CourseID, &stats.CourseTitle, &stats.Enrolled, &stats.Completed); err != nil {
			return nil, storeError(err, nil)
		}
		stats.CompletionRate = domain.CompletionRate(stats.Completed, stats.Enrolled)
		summary.CourseStats = append(summary.CourseStats, stats)
	}
	return summary, storeError(rows.Err(), nil)
}
