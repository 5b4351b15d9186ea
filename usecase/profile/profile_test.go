package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/memstore"
	"github.com/fastygo/clubportal/internal/policy"
)

func TestDashboard(t *testing.T) {
	store := memstore.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, domain.NewMember("ada", "Ada", "ada@example.com", "h")))
	beginner := &domain.Course{Title: "Beginner", CourseType: domain.CourseBeginner, OrderNumber: 1}
	require.NoError(t, store.Courses().Create(ctx, beginner))
	require.NoError(t, store.Courses().Create(ctx, &domain.Course{Title: "Mentorship", CourseType: domain.CourseMentorship, OrderNumber: 2}))
	lesson := &domain.Module{CourseID: beginner.ID, Title: "Intro"}
	require.NoError(t, store.Modules().Create(ctx, lesson))
	require.NoError(t, store.Modules().Create(ctx, &domain.Module{CourseID: beginner.ID, Title: "Tactics"}))
	require.NoError(t, store.Progress().Upsert(ctx, &domain.Progress{UserID: "ada", ModuleID: lesson.ID, Completed: true}))

	uc := New(store.Users(), store.Courses(), store.Progress(), gate.New(nil, nil), nil)

	t.Run("Should show pending members no courses", func(t *testing.T) {
		pending := policy.Caller{ID: "ada", Role: domain.RoleMember, Status: domain.StatusPending}
		board, err := uc.Dashboard(ctx, pending)
		require.NoError(t, err)
		assert.Equal(t, "Ada", board.User.FullName)
		assert.Empty(t, board.Courses)
	})

	t.Run("Should summarise enterable courses", func(t *testing.T) {
		_, err := store.Users().ApplyTransition(ctx, "ada", domain.TransitionApprove)
		require.NoError(t, err)
		approved := policy.Caller{ID: "ada", Role: domain.RoleMember, Status: domain.StatusApproved}

		board, err := uc.Dashboard(ctx, approved)
		require.NoError(t, err)
		require.Len(t, board.Courses, 1)
		assert.Equal(t, "Beginner", board.Courses[0].Course.Title)
		assert.Equal(t, 2, board.Courses[0].Progress.TotalModules)
		assert.Equal(t, 1, board.Courses[0].Progress.CompletedModules)
	})

	t.Run("Should require a caller", func(t *testing.T) {
		_, err := uc.Me(ctx, policy.Anonymous)
		assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))
	})
}

type decisions []string

func (d *decisions) ObserveDecision(category, action, outcome string) {
	*d = append(*d, category+"/"+action+"/"+outcome)
}

func TestDashboard_DecidesThroughGate(t *testing.T) {
	store := memstore.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, domain.NewMember("ada", "Ada", "ada@example.com", "h")))
	require.NoError(t, store.Courses().Create(ctx, &domain.Course{Title: "Beginner", CourseType: domain.CourseBeginner, OrderNumber: 1}))

	var seen decisions
	uc := New(store.Users(), store.Courses(), store.Progress(), gate.New(&seen, nil), nil)

	pending := policy.Caller{ID: "ada", Role: domain.RoleMember, Status: domain.StatusPending}
	board, err := uc.Dashboard(ctx, pending)
	require.NoError(t, err)
	assert.Empty(t, board.Courses)
	assert.Contains(t, seen, "course/enter/not_approved")
}
