package members

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/memstore"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/repository/memory"
)

var admin = policy.Caller{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.StatusApproved, MentorshipAccess: true}

type fixture struct {
	uc    *UseCase
	store *memstore.Store
	users *memory.CachedUserRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memstore.NewStore()
	users := memory.NewCachedUserRepository(store.Users(), 16, time.Minute)
	uc := New(store, store.Users(), store.Sessions(), store.Audit(), gate.New(nil, nil), users, nil)

	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, domain.NewBootstrapAdmin(admin.ID, "Root", "root@example.com", "hash")))
	require.NoError(t, store.Users().Create(ctx, domain.NewMember("u1", "Ada", "ada@example.com", "hash")))
	require.NoError(t, store.Users().Create(ctx, domain.NewMember("u2", "Bob", "bob@example.com", "hash")))
	return fixture{uc: uc, store: store, users: users}
}

func auditCount(t *testing.T, f fixture) int {
	t.Helper()
	events, err := f.store.Audit().List(context.Background(), 100)
	require.NoError(t, err)
	return len(events)
}

func TestMembers_RequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	member := policy.Caller{ID: "u2", Role: domain.RoleMember, Status: domain.StatusApproved}

	_, err := f.uc.Approve(ctx, member, "u1")
	assert.Equal(t, domain.ReasonForbiddenNotAdmin, domain.ReasonOf(err))

	_, err = f.uc.List(ctx, policy.Anonymous, domain.UserFilter{})
	assert.Equal(t, domain.ReasonUnauthenticated, domain.ReasonOf(err))

	_, err = f.uc.Archive(ctx, member, "u2")
	assert.Equal(t, domain.ReasonForbiddenNotAdmin, domain.ReasonOf(err))

	_, err = f.uc.Audit(ctx, member, 10)
	assert.Equal(t, domain.ReasonForbiddenNotAdmin, domain.ReasonOf(err))
}

func TestMembers_Approve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cached, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, cached.Status)

	result, err := f.uc.Approve(ctx, admin, "u1")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, domain.StatusApproved, result.User.Status)

	fresh, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, fresh.Status)

	again, err := f.uc.Approve(ctx, admin, "u1")
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, 1, auditCount(t, f))

	events, err := f.uc.Audit(ctx, admin, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user.approve", events[0].Name)
	assert.Equal(t, admin.ID, events[0].ActorID)

	_, err = f.uc.Approve(ctx, admin, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMembers_SetMentorship(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.uc.SetMentorship(ctx, admin, "u1", true)
	require.NoError(t, err)
	assert.True(t, result.User.MentorshipAccess)
	assert.Equal(t, domain.StatusPending, result.User.Status)

	result, err = f.uc.SetMentorship(ctx, admin, "u1", false)
	require.NoError(t, err)
	assert.False(t, result.User.MentorshipAccess)
	assert.Equal(t, 2, auditCount(t, f))
}

func TestMembers_Archive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Sessions().Save(ctx, &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	_, err := f.uc.SetMentorship(ctx, admin, "u1", true)
	require.NoError(t, err)

	result, err := f.uc.Archive(ctx, admin, "u1")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, domain.StatusArchived, result.User.Status)
	assert.True(t, result.User.MentorshipAccess, "archive leaves the mentorship flag untouched")

	_, err = f.store.Sessions().Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	t.Run("Should be idempotent", func(t *testing.T) {
		before := auditCount(t, f)
		again, err := f.uc.Archive(ctx, admin, "u1")
		require.NoError(t, err)
		assert.False(t, again.Changed)
		assert.Equal(t, domain.StatusArchived, again.User.Status)
		assert.Equal(t, before, auditCount(t, f))
	})

	t.Run("Should refuse further transitions", func(t *testing.T) {
		_, err := f.uc.Approve(ctx, admin, "u1")
		assert.ErrorIs(t, err, domain.ErrAlreadyArchived)
		_, err = f.uc.SetMentorship(ctx, admin, "u1", false)
		assert.ErrorIs(t, err, domain.ErrAlreadyArchived)
	})

	t.Run("Should refuse self archive", func(t *testing.T) {
		_, err := f.uc.Archive(ctx, admin, admin.ID)
		assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))
	})

	t.Run("Should report unknown users", func(t *testing.T) {
		_, err := f.uc.Archive(ctx, admin, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMembers_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	yes := true

	_, err := f.uc.Approve(ctx, admin, "u1")
	require.NoError(t, err)
	_, err = f.uc.SetMentorship(ctx, admin, "u1", true)
	require.NoError(t, err)
	_, err = f.uc.Archive(ctx, admin, "u2")
	require.NoError(t, err)

	all, err := f.uc.List(ctx, admin, domain.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mentored, err := f.uc.List(ctx, admin, domain.UserFilter{Status: domain.StatusApproved, Mentorship: &yes})
	require.NoError(t, err)
	require.Len(t, mentored, 2)

	archived, err := f.uc.List(ctx, admin, domain.UserFilter{Status: domain.StatusArchived})
	require.NoError(t, err)
	assert.Empty(t, archived)

	_, err = f.uc.List(ctx, admin, domain.UserFilter{Status: "banned"})
	assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))
}

func TestMembers_ConcurrentApproveAndArchive(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.uc.Approve(ctx, admin, "u1")
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrAlreadyArchived)
			}
		}()
		go func() {
			defer wg.Done()
			_, err := f.uc.Archive(ctx, admin, "u1")
			assert.NoError(t, err)
		}()
		wg.Wait()

		user, err := f.users.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusArchived, user.Status)
	}
}
