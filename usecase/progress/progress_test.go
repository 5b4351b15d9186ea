package progress

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

var (
	ada    = policy.Caller{ID: "ada", Role: domain.RoleMember, Status: domain.StatusApproved}
	bob    = policy.Caller{ID: "bob", Role: domain.RoleMember, Status: domain.StatusApproved, MentorshipAccess: true}
	newbie = policy.Caller{ID: "new", Role: domain.RoleMember, Status: domain.StatusPending}
)

type fixture struct {
	uc         *UseCase
	course     string
	mentorship string
	lessons    []string
	secret     string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memstore.NewStore()
	ctx := context.Background()

	course := &domain.Course{Title: "Beginner", CourseType: domain.CourseBeginner}
	require.NoError(t, store.Courses().Create(ctx, course))
	mentorship := &domain.Course{Title: "Mentorship", CourseType: domain.CourseMentorship}
	require.NoError(t, store.Courses().Create(ctx, mentorship))

	f := fixture{course: course.ID, mentorship: mentorship.ID}
	for i := 1; i <= 3; i++ {
		module := &domain.Module{CourseID: course.ID, Title: "Lesson", OrderNumber: i}
		require.NoError(t, store.Modules().Create(ctx, module))
		f.lessons = append(f.lessons, module.ID)
	}
	secret := &domain.Module{CourseID: mentorship.ID, Title: "Session"}
	require.NoError(t, store.Modules().Create(ctx, secret))
	f.secret = secret.ID

	f.uc = New(store.Progress(), store.Modules(), store.Courses(), gate.New(nil, nil), nil)
	return f
}

func TestMark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Mark(ctx, ada, f.lessons[0], true)
	require.NoError(t, err)
	assert.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)

	t.Run("Should upsert on the same module", func(t *testing.T) {
		again, err := f.uc.Mark(ctx, ada, f.lessons[0], false)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.False(t, again.Completed)
		assert.Nil(t, again.CompletedAt)

		records, err := f.uc.List(ctx, ada)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("Should apply the access ladder", func(t *testing.T) {
		_, err := f.uc.Mark(ctx, policy.Anonymous, f.lessons[0], true)
		assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))

		_, err = f.uc.Mark(ctx, newbie, f.lessons[0], true)
		assert.Equal(t, domain.ReasonNotApproved, domain.ReasonOf(err))

		_, err = f.uc.Mark(ctx, ada, f.secret, true)
		assert.Equal(t, domain.ReasonMentorshipRequired, domain.ReasonOf(err))

		_, err = f.uc.Mark(ctx, bob, f.secret, true)
		assert.NoError(t, err)
	})

	t.Run("Should report unknown modules", func(t *testing.T) {
		_, err := f.uc.Mark(ctx, ada, "ghost", true)
		assert.ErrorIs(t, err, domain.ErrModuleNotFound)
	})
}

func TestUpdate_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.uc.Mark(ctx, ada, f.lessons[1], false)
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, ada, record.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)

	_, foreign := f.uc.Update(ctx, bob, record.ID, false)
	_, missing := f.uc.Update(ctx, bob, "ghost", false)
	assert.Equal(t, domain.ReasonForbiddenNotOwner, domain.ReasonOf(foreign))
	assert.Equal(t, foreign.Error(), missing.Error())

	_, err = f.uc.Update(ctx, policy.Anonymous, record.ID, false)
	assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))
}

func TestCourseSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range f.lessons[:2] {
		_, err := f.uc.Mark(ctx, ada, id, true)
		require.NoError(t, err)
	}
	_, err := f.uc.Mark(ctx, bob, f.lessons[2], true)
	require.NoError(t, err)

	summary, err := f.uc.CourseSummary(ctx, ada, f.course)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalModules)
	assert.Equal(t, 2, summary.CompletedModules)
	assert.False(t, summary.IsComplete())

	_, err = f.uc.CourseSummary(ctx, ada, f.mentorship)
	assert.Equal(t, domain.ReasonMentorshipRequired, domain.ReasonOf(err))

	_, err = f.uc.CourseSummary(ctx, ada, "ghost")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}
