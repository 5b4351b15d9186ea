package domain

// Transition names an admin action on a user's lifecycle.
type Transition string

const (
	TransitionApprove      Transition = "approve"
	TransitionArchive      Transition = "archive"
	TransitionGrantMentor  Transition = "grant_mentorship"
	TransitionRevokeMentor Transition = "revoke_mentorship"
)

// transitionTable lists, per action, the states it may start from and the state it lands in.
// Mentorship toggles keep the status unchanged.
var transitionTable = map[Transition]struct {
	from []Status
	to   Status
}{
	TransitionApprove:      {from: []Status{StatusPending, StatusApproved}, to: StatusApproved},
	TransitionArchive:      {from: []Status{StatusPending, StatusApproved}, to: StatusArchived},
	TransitionGrantMentor:  {from: []Status{StatusPending, StatusApproved}},
	TransitionRevokeMentor: {from: []Status{StatusPending, StatusApproved}},
}

// AllowedFrom returns the statuses a transition may be applied to.
func AllowedFrom(t Transition) []Status {
	entry, ok := transitionTable[t]
	if !ok {
		return nil
	}
	out := make([]Status, len(entry.from))
	copy(out, entry.from)
	return out
}

// NextStatus applies t to current. Archived is terminal: every transition out of it fails with
// ErrAlreadyArchived, which callers of TransitionArchive treat as an idempotent no-op.
func NextStatus(current Status, t Transition) (Status, error) {
	entry, ok := transitionTable[t]
	if !ok {
		return current, Invalid("unknown transition " + string(t))
	}
	for _, s := range entry.from {
		if s == current {
			if entry.to == "" {
				return current, nil
			}
			return entry.to, nil
		}
	}
	if current == StatusArchived {
		return current, ErrAlreadyArchived
	}
	return current, Invalid("transition " + string(t) + " not allowed from " + string(current))
}

// MentorshipTransition picks the toggle transition for a grant flag.
func MentorshipTransition(grant bool) Transition {
	if grant {
		return TransitionGrantMentor
	}
	return TransitionRevokeMentor
}
