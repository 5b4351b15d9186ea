// Package policy decides whether a caller may perform an action on a resource.
//
// Evaluate is a pure function of its inputs. Callers load whatever facts the decision needs
// (the parent course type of a module, the owner of a progress record, whether setup already ran)
// and pass them in the Resource; the engine never touches a store.
package policy

import "github.com/fastygo/clubportal/domain"

// Action is the verb of a request.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionArchive    Action = "archive"
	ActionEnter      Action = "enter"
	ActionInitialize Action = "initialize"
)

// Category tags the kind of resource being addressed.
type Category string

const (
	CategoryPublicContent    Category = "public_content"
	CategoryCourse           Category = "course"
	CategoryModule           Category = "module"
	CategoryProgressRecord   Category = "progress_record"
	CategoryAdminOnlyContent Category = "admin_only_content"
	CategoryUserRecord       Category = "user_record"
	CategorySystemSetup      Category = "system_setup"
)

// Reason is the stable code attached to a denial.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonUnauthenticated      Reason = domain.ReasonUnauthenticated
	ReasonForbiddenNotAdmin    Reason = domain.ReasonForbiddenNotAdmin
	ReasonForbiddenNotOwner    Reason = domain.ReasonForbiddenNotOwner
	ReasonForbiddenDefault     Reason = domain.ReasonForbiddenDefault
	ReasonNotApproved          Reason = domain.ReasonNotApproved
	ReasonMentorshipRequired   Reason = domain.ReasonMentorshipRequired
	ReasonSetupAlreadyComplete Reason = domain.ReasonSetupAlreadyComplete
)

// Caller is the resolved identity of one request. The zero value is the anonymous caller.
type Caller struct {
	ID               string
	Role             domain.Role
	Status           domain.Status
	MentorshipAccess bool
}

// Anonymous is the caller of a request without a valid credential.
var Anonymous = Caller{}

// CallerFromUser snapshots the policy-relevant fields of u.
func CallerFromUser(u *domain.User) Caller {
	if u == nil {
		return Anonymous
	}
	return Caller{
		ID:               u.ID,
		Role:             u.Role,
		Status:           u.Status,
		MentorshipAccess: u.MentorshipAccess,
	}
}

func (c Caller) IsAnonymous() bool { return c.ID == "" }

func (c Caller) IsAdmin() bool { return !c.IsAnonymous() && c.Role == domain.RoleAdmin }

func (c Caller) IsApproved() bool { return !c.IsAnonymous() && c.Status == domain.StatusApproved }

// HasMentorship reports effective mentorship access.
func (c Caller) HasMentorship() bool { return c.IsApproved() && c.MentorshipAccess }

// Resource identifies the target of a request along with the facts the decision depends on.
type Resource struct {
	Category Category
	// CourseType is the type of the course itself (Course) or of the parent course (Module,
	// ProgressRecord). Empty means not mentorship-gated.
	CourseType domain.CourseType
	// OwnerID is the owning user of a ProgressRecord or the subject of a UserRecord.
	OwnerID string
	// SetupComplete reports whether an administrator already exists.
	SetupComplete bool
}

// Decision is the outcome of an evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

func isMutation(a Action) bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionArchive:
		return true
	}
	return false
}

// Evaluate applies the decision table in order; the first matching rule wins.
func Evaluate(caller Caller, action Action, res Resource) Decision {
	// 1. bootstrap
	if res.Category == CategorySystemSetup {
		switch action {
		case ActionInitialize:
			if res.SetupComplete {
				return deny(ReasonSetupAlreadyComplete)
			}
			return allow()
		case ActionRead:
			return allow()
		}
		return deny(ReasonForbiddenDefault)
	}

	// 2. administrative actions
	if requiresAdmin(caller, action, res) {
		return adminOnly(caller)
	}

	// 3. public reads
	if action == ActionRead {
		switch {
		case res.Category == CategoryPublicContent:
			return allow()
		case res.Category == CategoryCourse && res.CourseType != domain.CourseMentorship:
			return allow()
		}
	}

	// 4. progressive access
	if progressiveAccess(action, res.Category) {
		return ladder(caller, res.CourseType)
	}

	// 5. owner-scoped writes and self service
	switch {
	case res.Category == CategoryProgressRecord && action == ActionUpdate:
		if caller.IsAnonymous() {
			return deny(ReasonUnauthenticated)
		}
		if res.OwnerID == "" || res.OwnerID != caller.ID {
			return deny(ReasonForbiddenNotOwner)
		}
		return ladder(caller, res.CourseType)
	case res.Category == CategoryUserRecord && action == ActionRead:
		if caller.IsAnonymous() {
			return deny(ReasonUnauthenticated)
		}
		return allow()
	}

	// 6. default
	return deny(ReasonForbiddenDefault)
}

func requiresAdmin(caller Caller, action Action, res Resource) bool {
	switch res.Category {
	case CategoryPublicContent, CategoryCourse, CategoryModule:
		return isMutation(action)
	case CategoryAdminOnlyContent:
		return true
	case CategoryUserRecord:
		if isMutation(action) {
			return true
		}
		return action == ActionRead && res.OwnerID != caller.ID
	}
	return false
}

func adminOnly(caller Caller) Decision {
	if caller.IsAnonymous() {
		return deny(ReasonUnauthenticated)
	}
	if caller.Role != domain.RoleAdmin {
		return deny(ReasonForbiddenNotAdmin)
	}
	return allow()
}

func progressiveAccess(action Action, category Category) bool {
	switch category {
	case CategoryProgressRecord:
		return action == ActionRead || action == ActionCreate
	case CategoryCourse:
		// Reads of non-mentorship courses were answered by rule 3.
		return action == ActionEnter || action == ActionRead
	case CategoryModule:
		return action == ActionEnter || action == ActionRead
	}
	return false
}

func ladder(caller Caller, courseType domain.CourseType) Decision {
	if caller.IsAnonymous() {
		return deny(ReasonUnauthenticated)
	}
	if caller.Status != domain.StatusApproved {
		return deny(ReasonNotApproved)
	}
	if courseType == domain.CourseMentorship && !caller.MentorshipAccess {
		return deny(ReasonMentorshipRequired)
	}
	return allow()
}
