package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
)

func TestStore_UserEmailsReleasedOnArchive(t *testing.T) {
	store := NewStore()
	users := store.Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, domain.NewMember("u1", "Ada", "ada@example.com", "hash")))
	assert.ErrorIs(t, users.Create(ctx, domain.NewMember("u2", "Ada", "ADA@example.com", "hash")), domain.ErrEmailTaken)

	_, err := users.ApplyTransition(ctx, "u1", domain.TransitionArchive)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, domain.NewMember("u2", "Ada", "ada@example.com", "hash")))

	found, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", found.ID)
}

func TestStore_ConcurrentTransitionsNeverMix(t *testing.T) {
	for i := 0; i < 20; i++ {
		store := NewStore()
		users := store.Users()
		ctx := context.Background()
		require.NoError(t, users.Create(ctx, domain.NewMember("u1", "Ada", "ada@example.com", "hash")))

		var wg sync.WaitGroup
		for _, tr := range []domain.Transition{domain.TransitionApprove, domain.TransitionArchive} {
			wg.Add(1)
			go func(tr domain.Transition) {
				defer wg.Done()
				_, _ = users.ApplyTransition(ctx, "u1", tr)
			}(tr)
		}
		wg.Wait()

		user, err := users.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Contains(t, []domain.Status{domain.StatusApproved, domain.StatusArchived}, user.Status)
	}
}

func TestStore_FailWith(t *testing.T) {
	store := NewStore()
	store.FailWith(errors.New("connection refused"))

	_, err := store.Courses().List(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))

	store.FailWith(nil)
	_, err = store.Courses().List(context.Background())
	assert.NoError(t, err)
}

func TestStore_AnalyticsSummary(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	admin := domain.NewBootstrapAdmin("a1", "Root", "root@example.com", "hash")
	require.NoError(t, store.Users().Create(ctx, admin))
	require.NoError(t, store.Users().Create(ctx, domain.NewMember("u1", "Ada", "ada@example.com", "hash")))
	require.NoError(t, store.Users().Create(ctx, domain.NewMember("u2", "Bob", "bob@example.com", "hash")))
	_, err := store.Users().ApplyTransition(ctx, "u1", domain.TransitionApprove)
	require.NoError(t, err)
	require.NoError(t, store.Users().TouchLogin(ctx, "u1", time.Now()))

	course := &domain.Course{Title: "Beginner", CourseType: domain.CourseBeginner}
	require.NoError(t, store.Courses().Create(ctx, course))
	empty := &domain.Course{Title: "Empty", CourseType: domain.CourseAdvanced, OrderNumber: 2}
	require.NoError(t, store.Courses().Create(ctx, empty))

	m1 := &domain.Module{CourseID: course.ID, Title: "One", OrderNumber: 1}
	m2 := &domain.Module{CourseID: course.ID, Title: "Two", OrderNumber: 2}
	require.NoError(t, store.Modules().Create(ctx, m1))
	require.NoError(t, store.Modules().Create(ctx, m2))

	for _, rec := range []domain.Progress{
		{UserID: "u1", ModuleID: m1.ID, Completed: true},
		{UserID: "u1", ModuleID: m2.ID, Completed: true},
		{UserID: "u2", ModuleID: m1.ID, Completed: true},
		{UserID: "a1", ModuleID: m2.ID},
	} {
		rec := rec
		require.NoError(t, store.Progress().Upsert(ctx, &rec))
	}

	summary, err := store.Analytics().Summary(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalUsers)
	assert.Equal(t, 2, summary.ApprovedUsers)
	assert.Equal(t, 1, summary.PendingUsers)
	assert.Equal(t, 1, summary.ActiveUsers)
	assert.Equal(t, 1, summary.MentorshipUsers)
	require.Len(t, summary.CourseStats, 1)
	assert.Equal(t, 3, summary.CourseStats[0].Enrolled)
	assert.Equal(t, 1, summary.CourseStats[0].Completed)
	assert.Equal(t, 33.33, summary.CourseStats[0].CompletionRate)
}

func TestStore_ReorderIsAllOrNothing(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	m := &domain.Module{CourseID: "c1", Title: "One", OrderNumber: 1}
	require.NoError(t, store.Modules().Create(ctx, m))

	err := store.Modules().Reorder(ctx, []domain.OrderItem{{ID: m.ID, OrderNumber: 5}, {ID: "ghost", OrderNumber: 1}})
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)

	got, err := store.Modules().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.OrderNumber)
}

func TestStore_ProgressKeepsFirstCompletion(t *testing.T) {
	store := NewStore()
	progress := store.Progress()
	ctx := context.Background()
	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	record := &domain.Progress{UserID: "u1", ModuleID: "m1"}
	record.MarkCompleted(true, first)
	require.NoError(t, progress.Upsert(ctx, record))

	again := &domain.Progress{UserID: "u1", ModuleID: "m1"}
	again.MarkCompleted(true, first.Add(72*time.Hour))
	require.NoError(t, progress.Upsert(ctx, again))
	assert.Equal(t, record.ID, again.ID)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, first, *again.CompletedAt)

	update := &domain.Progress{ID: record.ID}
	update.MarkCompleted(true, first.Add(96*time.Hour))
	require.NoError(t, progress.Update(ctx, update))
	assert.Equal(t, first, *update.CompletedAt)

	update.MarkCompleted(false, time.Time{})
	require.NoError(t, progress.Update(ctx, update))
	assert.Nil(t, update.CompletedAt)
}
