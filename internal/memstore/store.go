// Package memstore is a map-backed implementation of the repository ports for tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/clubportal/domain"
	"github.com/fastygo/clubportal/repository"
)

// Store is a process-local implementation of every repository port. It backs the use case and
// handler tests. Transactions are serialized and roll back on error.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  int64
	fail error

	users     map[string]domain.User
	sessions  map[string]domain.Session
	courses   map[string]domain.Course
	modules   map[string]domain.Module
	progress  map[string]domain.Progress
	announce  map[string]domain.Announcement
	leaders   map[string]domain.LeadershipMember
	events    map[string]domain.SuccessEvent
	homepage  map[string]domain.HomepageSection
	coach     *domain.CoachInfo
	setupBy   string
	audit     []domain.AuditEvent
	snapshots []domain.AnalyticsSummary
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		sessions: make(map[string]domain.Session),
		courses:  make(map[string]domain.Course),
		modules:  make(map[string]domain.Module),
		progress: make(map[string]domain.Progress),
		announce: make(map[string]domain.Announcement),
		leaders:  make(map[string]domain.LeadershipMember),
		events:   make(map[string]domain.SuccessEvent),
		homepage: make(map[string]domain.HomepageSection),
	}
}

// FailWith makes every subsequent operation return err wrapped as an unavailable store.
// A nil err restores normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *Store) lock() error {
	s.mu.Lock()
	if s.fail != nil {
		err := s.fail
		s.mu.Unlock()
		return domain.Unavailable(err)
	}
	return nil
}

// now returns strictly increasing timestamps so orderings are deterministic.
func (s *Store) now() time.Time {
	s.seq++
	return time.Now().UTC().Add(time.Duration(s.seq))
}

type txKey struct{}

// WithinTx serializes fn against other transactions on the store and restores the previous
// state when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.snapshot()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.restore(saved)
		s.mu.Unlock()
		return err
	}
	return nil
}

type state struct {
	users     map[string]domain.User
	sessions  map[string]domain.Session
	courses   map[string]domain.Course
	modules   map[string]domain.Module
	progress  map[string]domain.Progress
	announce  map[string]domain.Announcement
	leaders   map[string]domain.LeadershipMember
	events    map[string]domain.SuccessEvent
	homepage  map[string]domain.HomepageSection
	coach     *domain.CoachInfo
	setupBy   string
	audit     []domain.AuditEvent
	snapshots []domain.AnalyticsSummary
}

func (s *Store) snapshot() state {
	st := state{
		users:     cloneMap(s.users),
		sessions:  cloneMap(s.sessions),
		courses:   cloneMap(s.courses),
		modules:   cloneMap(s.modules),
		progress:  cloneMap(s.progress),
		announce:  cloneMap(s.announce),
		leaders:   cloneMap(s.leaders),
		events:    cloneMap(s.events),
		homepage:  cloneMap(s.homepage),
		setupBy:   s.setupBy,
		audit:     append([]domain.AuditEvent(nil), s.audit...),
		snapshots: append([]domain.AnalyticsSummary(nil), s.snapshots...),
	}
	if s.coach != nil {
		coach := *s.coach
		st.coach = &coach
	}
	return st
}

func (s *Store) restore(st state) {
	s.users, s.sessions, s.courses, s.modules = st.users, st.sessions, st.courses, st.modules
	s.progress, s.announce, s.leaders, s.events = st.progress, st.announce, st.leaders, st.events
	s.homepage, s.coach, s.setupBy = st.homepage, st.coach, st.setupBy
	s.audit, s.snapshots = st.audit, st.snapshots
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Sessions() repository.SessionRepository   { return sessionRepo{s} }
func (s *Store) Courses() repository.CourseRepository     { return courseRepo{s} }
func (s *Store) Modules() repository.ModuleRepository     { return moduleRepo{s} }
func (s *Store) Progress() repository.ProgressRepository  { return progressRepo{s} }
func (s *Store) Content() repository.ContentRepository    { return contentRepo{s} }
func (s *Store) Setup() repository.SetupRepository        { return setupRepo{s} }
func (s *Store) Audit() repository.AuditRepository        { return auditRepo{s} }
func (s *Store) Analytics() repository.AnalyticsRepository { return analyticsRepo{s} }
func (s *Store) Snapshots() repository.SnapshotRepository { return snapshotRepo{s} }

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

// users

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, user := range r.s.users {
		if user.Status != domain.StatusArchived && strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Status != domain.StatusArchived && strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) List(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	users := make([]domain.User, 0)
	for _, user := range r.s.users {
		if user.Status == domain.StatusArchived {
			continue
		}
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		if filter.Mentorship != nil && user.MentorshipAccess != *filter.Mentorship {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(users) {
			return []domain.User{}, nil
		}
		users = users[filter.Offset:]
	}
	if limit := clampLimit(filter.Limit); len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r userRepo) ApplyTransition(_ context.Context, id string, t domain.Transition) (*domain.User, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	next, err := domain.NextStatus(user.Status, t)
	if err != nil {
		return &user, err
	}
	user.Status = next
	switch t {
	case domain.TransitionGrantMentor:
		user.MentorshipAccess = true
	case domain.TransitionRevokeMentor:
		user.MentorshipAccess = false
	}
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return &user, nil
}

func (r userRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	at = at.UTC()
	user.LastLoginAt = &at
	r.s.users[id] = user
	return nil
}

func (r userRepo) CountAdmins(_ context.Context) (int, error) {
	if err := r.s.lock(); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	count := 0
	for _, user := range r.s.users {
		if user.Role == domain.RoleAdmin && user.Status != domain.StatusArchived {
			count++
		}
	}
	return count, nil
}

// sessions

type sessionRepo struct{ s *Store }

func (r sessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r sessionRepo) Save(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" || session.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r sessionRepo) Delete(_ context.Context, id string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r sessionRepo) Extend(_ context.Context, id string, expiresAt time.Time) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ExpiresAt = expiresAt
	r.s.sessions[id] = session
	return nil
}

func (r sessionRepo) RevokeUser(_ context.Context, userID string) (int, error) {
	if err := r.s.lock(); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	removed := 0
	for id, session := range r.s.sessions {
		if session.UserID == userID {
			delete(r.s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// courses and modules

type courseRepo struct{ s *Store }

func (r courseRepo) List(_ context.Context) ([]domain.Course, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	courses := make([]domain.Course, 0, len(r.s.courses))
	for _, course := range r.s.courses {
		if !course.Archived {
			courses = append(courses, course)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].OrderNumber != courses[j].OrderNumber {
			return courses[i].OrderNumber < courses[j].OrderNumber
		}
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
	return courses, nil
}

func (r courseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	course, ok := r.s.courses[id]
	if !ok || course.Archived {
		return nil, domain.ErrCourseNotFound
	}
	return &course, nil
}

func (r courseRepo) Create(_ context.Context, course *domain.Course) error {
	if course == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := r.s.now()
	course.CreatedAt, course.UpdatedAt = now, now
	r.s.courses[course.ID] = *course
	return nil
}

func (r courseRepo) Update(_ context.Context, course *domain.Course) error {
	if course == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.courses[course.ID]
	if !ok || existing.Archived {
		return domain.ErrCourseNotFound
	}
	course.CreatedAt = existing.CreatedAt
	course.UpdatedAt = r.s.now()
	r.s.courses[course.ID] = *course
	return nil
}

func (r courseRepo) Archive(_ context.Context, id string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	course, ok := r.s.courses[id]
	if !ok || course.Archived {
		return domain.ErrCourseNotFound
	}
	course.Archived = true
	course.UpdatedAt = r.s.now()
	r.s.courses[id] = course
	return nil
}

type moduleRepo struct{ s *Store }

func (r moduleRepo) ListByCourse(_ context.Context, courseID string) ([]domain.Module, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.s.liveModules(courseID), nil
}

func (s *Store) liveModules(courseID string) []domain.Module {
	modules := make([]domain.Module, 0)
	for _, module := range s.modules {
		if module.CourseID == courseID && !module.Archived {
			modules = append(modules, module)
		}
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].OrderNumber != modules[j].OrderNumber {
			return modules[i].OrderNumber < modules[j].OrderNumber
		}
		return modules[i].CreatedAt.Before(modules[j].CreatedAt)
	})
	return modules
}

func (r moduleRepo) GetByID(_ context.Context, id string) (*domain.Module, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	module, ok := r.s.modules[id]
	if !ok || module.Archived {
		return nil, domain.ErrModuleNotFound
	}
	return &module, nil
}

func (r moduleRepo) Create(_ context.Context, module *domain.Module) error {
	if module == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	now := r.s.now()
	module.CreatedAt, module.UpdatedAt = now, now
	r.s.modules[module.ID] = *module
	return nil
}

func (r moduleRepo) Update(_ context.Context, module *domain.Module) error {
	if module == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.modules[module.ID]
	if !ok || existing.Archived {
		return domain.ErrModuleNotFound
	}
	module.CourseID = existing.CourseID
	module.CreatedAt = existing.CreatedAt
	module.UpdatedAt = r.s.now()
	r.s.modules[module.ID] = *module
	return nil
}

func (r moduleRepo) Archive(_ context.Context, id string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	module, ok := r.s.modules[id]
	if !ok || module.Archived {
		return domain.ErrModuleNotFound
	}
	module.Archived = true
	module.UpdatedAt = r.s.now()
	r.s.modules[id] = module
	return nil
}

func (r moduleRepo) Reorder(_ context.Context, items []domain.OrderItem) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, item := range items {
		if module, ok := r.s.modules[item.ID]; !ok || module.Archived {
			return domain.ErrModuleNotFound
		}
	}
	for _, item := range items {
		module := r.s.modules[item.ID]
		module.OrderNumber = item.OrderNumber
		module.UpdatedAt = r.s.now()
		r.s.modules[item.ID] = module
	}
	return nil
}

// progress

type progressRepo struct{ s *Store }

func (r progressRepo) ListByUser(_ context.Context, userID string) ([]domain.Progress, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	records := make([]domain.Progress, 0)
	for _, record := range r.s.progress {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UpdatedAt.After(records[j].UpdatedAt) })
	return records, nil
}

func (r progressRepo) GetByID(_ context.Context, id string) (*domain.Progress, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	record, ok := r.s.progress[id]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	return &record, nil
}

func (r progressRepo) Upsert(_ context.Context, progress *domain.Progress) error {
	if progress == nil || progress.UserID == "" || progress.ModuleID == "" {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for id, existing := range r.s.progress {
		if existing.UserID == progress.UserID && existing.ModuleID == progress.ModuleID {
			progress.ID = id
			keepCompletion(progress, existing)
			break
		}
	}
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	progress.UpdatedAt = r.s.now()
	r.s.progress[progress.ID] = *progress
	return nil
}

func (r progressRepo) Update(_ context.Context, progress *domain.Progress) error {
	if progress == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	existing, ok := r.s.progress[progress.ID]
	if !ok {
		return domain.ErrProgressNotFound
	}
	keepCompletion(progress, existing)
	existing.Completed = progress.Completed
	existing.CompletedAt = progress.CompletedAt
	existing.UpdatedAt = r.s.now()
	r.s.progress[progress.ID] = existing
	*progress = existing
	return nil
}

// keepCompletion holds on to the first completion time while a record stays completed.
func keepCompletion(next *domain.Progress, existing domain.Progress) {
	if next.Completed && existing.CompletedAt != nil {
		at := *existing.CompletedAt
		next.CompletedAt = &at
	}
}

func (r progressRepo) CourseSummary(_ context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	summary := &domain.CourseProgress{CourseID: courseID}
	for _, module := range r.s.liveModules(courseID) {
		summary.TotalModules++
		for _, record := range r.s.progress {
			if record.UserID == userID && record.ModuleID == module.ID && record.Completed {
				summary.CompletedModules++
				break
			}
		}
	}
	return summary, nil
}

// content

type contentRepo struct{ s *Store }

func (r contentRepo) ListAnnouncements(_ context.Context) ([]domain.Announcement, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	items := make([]domain.Announcement, 0)
	for _, item := range r.s.announce {
		if !item.Archived {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r contentRepo) GetAnnouncement(_ context.Context, id string) (*domain.Announcement, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	item, ok := r.s.announce[id]
	if !ok || item.Archived {
		return nil, domain.ErrContentNotFound
	}
	return &item, nil
}

func (r contentRepo) SaveAnnouncement(_ context.Context, item *domain.Announcement) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := r.s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	if existing, ok := r.s.announce[item.ID]; ok {
		if existing.Archived {
			return domain.ErrContentNotFound
		}
		item.CreatedAt = existing.CreatedAt
	}
	item.Archived = false
	r.s.announce[item.ID] = *item
	return nil
}

func (r contentRepo) ArchiveAnnouncement(_ context.Context, id string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	item, ok := r.s.announce[id]
	if !ok || item.Archived {
		return domain.ErrContentNotFound
	}
	item.Archived = true
	item.UpdatedAt = r.s.now()
	r.s.announce[id] = item
	return nil
}

func (r contentRepo) ListLeadership(_ context.Context) ([]domain.LeadershipMember, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	items := make([]domain.LeadershipMember, 0)
	for _, item := range r.s.leaders {
		if !item.Archived {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].OrderNumber != items[j].OrderNumber {
			return items[i].OrderNumber < items[j].OrderNumber
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r contentRepo) GetLeader(_ context.Context, id string) (*domain.LeadershipMember, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	item, ok := r.s.leaders[id]
	if !ok || item.Archived {
		return nil, domain.ErrContentNotFound
	}
	return &item, nil
}

func (r contentRepo) SaveLeader(_ context.Context, item *domain.LeadershipMember) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := r.s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	if existing, ok := r.s.leaders[item.ID]; ok {
		if existing.Archived {
			return domain.ErrContentNotFound
		}
		item.CreatedAt = existing.CreatedAt
	}
	item.Archived = false
	r.s.leaders[item.ID] = *item
	return nil
}

func (r contentRepo) ArchiveLeader(_ context.Context, id string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	item, ok := r.s.leaders[id]
	if !ok || item.Archived {
		return domain.ErrContentNotFound
	}
	item.Archived = true
	item.UpdatedAt = r.s.now()
	r.s.leaders[id] = item
	return nil
}

func (r contentRepo) ReorderLeadership(_ context.Context, items []domain.OrderItem) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, item := range items {
		if leader, ok := r.s.leaders[item.ID]; !ok || leader.Archived {
			return domain.ErrContentNotFound
		}
	}
	for _, item := range items {
		leader := r.s.leaders[item.ID]
		leader.OrderNumber = item.OrderNumber
		leader.UpdatedAt = r.s.now()
		r.s.leaders[item.ID] = leader
	}
	return nil
}

func (r contentRepo) ListSuccessEvents(_ context.Context) ([]domain.SuccessEvent, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	items := make([]domain.SuccessEvent, 0)
	for _, item := range r.s.events {
		if !item.Archived {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

func (r contentRepo) GetSuccessEvent(_ context.Context, id string) (*domain.SuccessEvent, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	item, ok := r.s.events[id]
	if !ok || item.Archived {
		return nil, domain.ErrContentNotFound
	}
	return &item, nil
}

func (r contentRepo) SaveSuccessEvent(_ context.Context, item *domain.SuccessEvent) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := r.s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	if existing, ok := r.s.events[item.ID]; ok {
		if existing.Archived {
			return domain.ErrContentNotFound
		}
		item.CreatedAt = existing.CreatedAt
	}
	item.Archived = false
	r.s.events[item.ID] = *item
	return nil
}

func (r contentRepo) ArchiveSuccessEvent(_ context.Context, id string) error {
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	item, ok := r.s.events[id]
	if !ok || item.Archived {
		return domain.ErrContentNotFound
	}
	item.Archived = true
	item.UpdatedAt = r.s.now()
	r.s.events[id] = item
	return nil
}

func (r contentRepo) ListHomepage(_ context.Context) ([]domain.HomepageSection, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	sections := make([]domain.HomepageSection, 0, len(r.s.homepage))
	for _, section := range r.s.homepage {
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Section < sections[j].Section })
	return sections, nil
}

func (r contentRepo) UpsertHomepage(_ context.Context, section *domain.HomepageSection) error {
	if section == nil || section.Section == "" {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	section.UpdatedAt = r.s.now()
	r.s.homepage[section.Section] = *section
	return nil
}

func (r contentRepo) GetCoach(_ context.Context) (*domain.CoachInfo, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	if r.s.coach == nil {
		return nil, domain.ErrContentNotFound
	}
	info := *r.s.coach
	return &info, nil
}

func (r contentRepo) ReplaceCoach(_ context.Context, info *domain.CoachInfo) error {
	if info == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	info.UpdatedAt = r.s.now()
	stored := *info
	r.s.coach = &stored
	return nil
}

// setup and audit

type setupRepo struct{ s *Store }

func (r setupRepo) IsComplete(_ context.Context) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()
	return r.s.setupBy != "", nil
}

func (r setupRepo) Claim(_ context.Context, adminID string) (bool, error) {
	if err := r.s.lock(); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()
	if r.s.setupBy != "" {
		return false, nil
	}
	r.s.setupBy = adminID
	return true, nil
}

type auditRepo struct{ s *Store }

func (r auditRepo) Append(_ context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.s.now()
	}
	r.s.audit = append(r.s.audit, *event)
	return nil
}

func (r auditRepo) List(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	limit = clampLimit(limit)
	events := make([]domain.AuditEvent, 0, limit)
	for i := len(r.s.audit) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, r.s.audit[i])
	}
	return events, nil
}

// analytics

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) Summary(_ context.Context, activeSince time.Time) (*domain.AnalyticsSummary, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	summary := &domain.AnalyticsSummary{GeneratedAt: time.Now().UTC(), CourseStats: make([]domain.CourseStats, 0)}
	for _, user := range r.s.users {
		if user.Status == domain.StatusArchived {
			continue
		}
		summary.TotalUsers++
		switch user.Status {
		case domain.StatusApproved:
			summary.ApprovedUsers++
		case domain.StatusPending:
			summary.PendingUsers++
		}
		if user.MentorshipAccess {
			summary.MentorshipUsers++
		}
		if user.LastLoginAt != nil && !user.LastLoginAt.Before(activeSince) {
			summary.ActiveUsers++
		}
	}

	courses := make([]domain.Course, 0, len(r.s.courses))
	for _, course := range r.s.courses {
		if !course.Archived {
			courses = append(courses, course)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].OrderNumber < courses[j].OrderNumber })

	for _, course := range courses {
		modules := r.s.liveModules(course.ID)
		if len(modules) == 0 {
			continue
		}
		inCourse := make(map[string]bool, len(modules))
		for _, module := range modules {
			inCourse[module.ID] = true
		}
		done := make(map[string]int)
		for _, record := range r.s.progress {
			if !inCourse[record.ModuleID] {
				continue
			}
			if _, seen := done[record.UserID]; !seen {
				done[record.UserID] = 0
			}
			if record.Completed {
				done[record.UserID]++
			}
		}
		stats := domain.CourseStats{CourseID: course.ID, CourseTitle: course.Title, Enrolled: len(done)}
		for _, count := range done {
			if count == len(modules) {
				stats.Completed++
			}
		}
		stats.CompletionRate = domain.CompletionRate(stats.Completed, stats.Enrolled)
		summary.CourseStats = append(summary.CourseStats, stats)
	}
	return summary, nil
}

type snapshotRepo struct{ s *Store }

func (r snapshotRepo) Save(_ context.Context, summary *domain.AnalyticsSummary) error {
	if summary == nil {
		return domain.ErrInvalidPayload
	}
	if err := r.s.lock(); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.snapshots = append(r.s.snapshots, *summary)
	return nil
}

func (r snapshotRepo) List(_ context.Context, limit int) ([]domain.AnalyticsSummary, error) {
	if err := r.s.lock(); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	limit = clampLimit(limit)
	out := make([]domain.AnalyticsSummary, 0, limit)
	for i := len(r.s.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.snapshots[i])
	}
	return out, nil
}

func (r snapshotRepo) Prune(_ context.Context, before time.Time) (int, error) {
	if err := r.s.lock(); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	kept := r.s.snapshots[:0]
	removed := 0
	for _, snap := range r.s.snapshots {
		if snap.GeneratedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, snap)
	}
	r.s.snapshots = kept
	return removed, nil
}
