package setup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/memstore"
	"github.com/fastygo/clubportal/internal/policy"
	"github.com/fastygo/clubportal/internal/security"
	"github.com/fastygo/clubportal/usecase/auth"
)

func newUseCase(t *testing.T) (*UseCase, *memstore.Store) {
	t.Helper()
	store := memstore.NewStore()
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.New(store.Users(), store.Sessions(), hasher, security.NewTokenIssuer("secret", "clubportal", time.Hour), nil)
	uc := New(Stores{
		Tx:      store,
		Setup:   store.Setup(),
		Users:   store.Users(),
		Courses: store.Courses(),
		Modules: store.Modules(),
		Content: store.Content(),
		Audit:   store.Audit(),
	}, gate.New(nil, nil), hasher, tokens, nil)
	return uc, store
}

var rootInput = InitializeInput{FullName: "Root", Email: "root@example.com", Password: "change-me-now"}

func TestInitialize(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	done, err := uc.Status(ctx, policy.Anonymous)
	require.NoError(t, err)
	assert.False(t, done)

	resp, err := uc.Initialize(ctx, policy.Anonymous, rootInput)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	assert.Equal(t, domain.StatusApproved, resp.User.Status)
	assert.True(t, resp.User.MentorshipAccess)

	done, err = uc.Status(ctx, policy.Anonymous)
	require.NoError(t, err)
	assert.True(t, done)

	courses, err := store.Courses().List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, domain.CourseMentorship, courses[2].CourseType)

	modules, err := store.Modules().ListByCourse(ctx, courses[0].ID)
	require.NoError(t, err)
	assert.Len(t, modules, 9)

	sections, err := store.Content().ListHomepage(ctx)
	require.NoError(t, err)
	assert.Len(t, sections, 6)

	coach, err := store.Content().GetCoach(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Abrar Fahad Zaman", coach.Name)

	events, err := store.Audit().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "system.initialize", events[0].Name)
}

func TestInitialize_OnlyOnce(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Initialize(ctx, policy.Anonymous, rootInput)
	require.NoError(t, err)

	_, err = uc.Initialize(ctx, policy.Anonymous, InitializeInput{FullName: "Mallory", Email: "m@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrSetupAlreadyComplete)

	_, err = uc.Initialize(ctx, policy.Anonymous, InitializeInput{})
	assert.ErrorIs(t, err, domain.ErrSetupAlreadyComplete)

	admins, err := store.Users().CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)
}

func TestInitialize_ConcurrentCallsCreateOneAdmin(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Initialize(ctx, policy.Anonymous, rootInput); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrSetupAlreadyComplete)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	admins, err := store.Users().CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)
}

func TestInitialize_RollsBackOnFailure(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, domain.NewMember("m1", "Member", "root@example.com", "hash")))

	_, err := uc.Initialize(ctx, policy.Anonymous, rootInput)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	done, err := uc.Status(ctx, policy.Anonymous)
	require.NoError(t, err)
	assert.False(t, done)

	courses, err := store.Courses().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestInitialize_Validation(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Initialize(context.Background(), policy.Anonymous, InitializeInput{Email: "root@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestStatus_StoreUnavailable(t *testing.T) {
	uc, store := newUseCase(t)
	store.FailWith(errors.New("dial tcp"))

	_, err := uc.Status(context.Background(), policy.Anonymous)
	assert.Equal(t, domain.ReasonStoreUnavailable, domain.ReasonOf(err))
}
