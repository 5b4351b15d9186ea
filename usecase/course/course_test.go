package course

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
	admin    = policy.Caller{ID: "admin", Role: domain.RoleAdmin, Status: domain.StatusApproved, MentorshipAccess: true}
	pending  = policy.Caller{ID: "p", Role: domain.RoleMember, Status: domain.StatusPending}
	approved = policy.Caller{ID: "a", Role: domain.RoleMember, Status: domain.StatusApproved}
	mentee   = policy.Caller{ID: "m", Role: domain.RoleMember, Status: domain.StatusApproved, MentorshipAccess: true}
)

type fixture struct {
	uc         *UseCase
	store      *memstore.Store
	beginner   *domain.Course
	mentorship *domain.Course
	lesson     *domain.Module
	secret     *domain.Module
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memstore.NewStore()
	uc := New(store, store.Courses(), store.Modules(), store.Audit(), gate.New(nil, nil), nil)
	ctx := context.Background()

	beginner, err := uc.CreateCourse(ctx, admin, CourseInput{Title: "Beginner", CourseType: domain.CourseBeginner, OrderNumber: 1})
	require.NoError(t, err)
	mentorship, err := uc.CreateCourse(ctx, admin, CourseInput{Title: "Mentorship", CourseType: domain.CourseMentorship, OrderNumber: 3})
	require.NoError(t, err)
	_, err = uc.CreateCourse(ctx, admin, CourseInput{Title: "Advanced", CourseType: domain.CourseAdvanced, OrderNumber: 2})
	require.NoError(t, err)

	lesson, err := uc.CreateModule(ctx, admin, ModuleInput{CourseID: beginner.ID, Title: "Intro", OrderNumber: 1})
	require.NoError(t, err)
	secret, err := uc.CreateModule(ctx, admin, ModuleInput{CourseID: mentorship.ID, Title: "Session 1", OrderNumber: 1})
	require.NoError(t, err)

	return fixture{uc: uc, store: store, beginner: beginner, mentorship: mentorship, lesson: lesson, secret: secret}
}

func titles(courses []domain.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Title)
	}
	return out
}

func TestListCourses_FiltersByCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller policy.Caller
		want   []string
	}{
		{name: "anonymous", caller: policy.Anonymous, want: []string{"Beginner", "Advanced"}},
		{name: "pending", caller: pending, want: []string{"Beginner", "Advanced"}},
		{name: "approved without mentorship", caller: approved, want: []string{"Beginner", "Advanced"}},
		{name: "mentee", caller: mentee, want: []string{"Beginner", "Advanced", "Mentorship"}},
		{name: "admin", caller: admin, want: []string{"Beginner", "Advanced", "Mentorship"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := f.uc.ListCourses(ctx, tt.caller)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(courses))
		})
	}
}

func TestGetCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course, err := f.uc.GetCourse(ctx, policy.Anonymous, f.beginner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beginner", course.Title)

	_, err = f.uc.GetCourse(ctx, policy.Anonymous, f.mentorship.ID)
	assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))

	_, err = f.uc.GetCourse(ctx, approved, f.mentorship.ID)
	assert.Equal(t, domain.ReasonMentorshipRequired, domain.ReasonOf(err))

	_, err = f.uc.GetCourse(ctx, mentee, f.mentorship.ID)
	assert.NoError(t, err)

	_, err = f.uc.GetCourse(ctx, admin, "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestModuleAccessLadder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		caller   policy.Caller
		courseID string
		reason   string
	}{
		{name: "anonymous", caller: policy.Anonymous, courseID: f.beginner.ID, reason: domain.ReasonUnauthenticated},
		{name: "pending", caller: pending, courseID: f.beginner.ID, reason: domain.ReasonNotApproved},
		{name: "approved", caller: approved, courseID: f.beginner.ID},
		{name: "approved on mentorship", caller: approved, courseID: f.mentorship.ID, reason: domain.ReasonMentorshipRequired},
		{name: "mentee on mentorship", caller: mentee, courseID: f.mentorship.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modules, err := f.uc.ListModules(ctx, tt.caller, tt.courseID)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Len(t, modules, 1)
				return
			}
			assert.Equal(t, tt.reason, domain.ReasonOf(err))
			assert.Nil(t, modules)
		})
	}

	_, err := f.uc.GetModule(ctx, approved, f.secret.ID)
	assert.Equal(t, domain.ReasonMentorshipRequired, domain.ReasonOf(err))

	module, err := f.uc.GetModule(ctx, approved, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro", module.Title)
}

func TestAdminOperations_RequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateCourse(ctx, mentee, CourseInput{Title: "x", CourseType: domain.CourseBeginner})
	assert.Equal(t, domain.ReasonForbiddenNotAdmin, domain.ReasonOf(err))

	_, err = f.uc.UpdateModule(ctx, policy.Anonymous, f.lesson.ID, ModuleInput{Title: "x"})
	assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))

	err = f.uc.ReorderModules(ctx, approved, []domain.OrderItem{{ID: f.lesson.ID, OrderNumber: 2}})
	assert.Equal(t, domain.ReasonForbiddenNotAdmin, domain.ReasonOf(err))
}

func TestCourseLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateCourse(ctx, admin, CourseInput{Title: "Bad", CourseType: "expert"})
	assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))

	updated, err := f.uc.UpdateCourse(ctx, admin, f.beginner.ID, CourseInput{Title: " Basics ", CourseType: domain.CourseBeginner, OrderNumber: 9})
	require.NoError(t, err)
	assert.Equal(t, "Basics", updated.Title)

	courses, err := f.uc.ListCourses(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"Advanced", "Mentorship", "Basics"}, titles(courses))

	require.NoError(t, f.uc.ArchiveCourse(ctx, admin, f.beginner.ID))
	_, err = f.uc.GetCourse(ctx, admin, f.beginner.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	assert.ErrorIs(t, f.uc.ArchiveCourse(ctx, admin, f.beginner.ID), domain.ErrCourseNotFound)

	_, err = f.uc.CreateModule(ctx, admin, ModuleInput{CourseID: f.beginner.ID, Title: "Orphan"})
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestModuleEditing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := f.uc.CreateModule(ctx, admin, ModuleInput{CourseID: f.beginner.ID, Title: "Openings", OrderNumber: 2})
	require.NoError(t, err)

	moved, err := f.uc.UpdateModule(ctx, admin, f.lesson.ID, ModuleInput{CourseID: f.mentorship.ID, Title: "Intro v2", OrderNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, f.beginner.ID, moved.CourseID, "modules stay in their course")

	require.NoError(t, f.uc.ReorderModules(ctx, admin, []domain.OrderItem{
		{ID: f.lesson.ID, OrderNumber: 2},
		{ID: second.ID, OrderNumber: 1},
	}))
	modules, err := f.uc.ListModules(ctx, admin, f.beginner.ID)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "Openings", modules[0].Title)

	t.Run("Should reject the whole reorder on an unknown id", func(t *testing.T) {
		err := f.uc.ReorderModules(ctx, admin, []domain.OrderItem{
			{ID: f.lesson.ID, OrderNumber: 1},
			{ID: "ghost", OrderNumber: 2},
		})
		assert.ErrorIs(t, err, domain.ErrModuleNotFound)

		modules, err := f.uc.ListModules(ctx, admin, f.beginner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Openings", modules[0].Title)
	})

	t.Run("Should reject duplicate ids", func(t *testing.T) {
		err := f.uc.ReorderModules(ctx, admin, []domain.OrderItem{{ID: second.ID}, {ID: second.ID}})
		assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))
	})

	require.NoError(t, f.uc.ArchiveModule(ctx, admin, second.ID))
	modules, err = f.uc.ListModules(ctx, admin, f.beginner.ID)
	require.NoError(t, err)
	assert.Len(t, modules, 1)

	events, err := f.store.Audit().List(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "module.archive", events[0].Name)
}
