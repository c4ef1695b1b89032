// Package selection owns the single "active course" for a category view.
// The state is an explicit tagged value reconciling three inputs: the
// filtered course list, a course id carried in the URL, and user clicks.
//
// Invariant: whenever the state is non-empty, the course id is a member of
// the most recently applied filtered list. Enforcement is synchronous on
// every input change, never deferred to render time.
package selection

import "course-store/internal/domain"

// Kind tags the state.
type Kind int

const (
	Empty Kind = iota
	URLDriven
	AutoSelected
	UserSelected
)

func (k Kind) String() string {
	switch k {
	case URLDriven:
		return "url"
	case AutoSelected:
		return "auto"
	case UserSelected:
		return "user"
	default:
		return "empty"
	}
}

// State is the current selection. CourseID is empty exactly when Kind is
// Empty.
type State struct {
	Kind     Kind
	CourseID string
}

// Machine applies selection transitions against the latest filtered list.
type Machine struct {
	state State
	ids   map[string]bool
}

func NewMachine() *Machine {
	return &Machine{ids: map[string]bool{}}
}

// State returns the current selection.
func (m *Machine) State() State { return m.state }

// ApplyList reconciles the selection with a new filtered list. A selection
// still present in the list survives; otherwise the first course is
// auto-selected, or the state empties with the list.
func (m *Machine) ApplyList(filtered []domain.Course) State {
	m.ids = make(map[string]bool, len(filtered))
	for _, c := range filtered {
		m.ids[c.ID] = true
	}

	if m.state.Kind != Empty && m.ids[m.state.CourseID] {
		return m.state
	}
	if len(filtered) > 0 {
		m.state = State{Kind: AutoSelected, CourseID: filtered[0].ID}
	} else {
		m.state = State{Kind: Empty}
	}
	return m.state
}

// ApplyURL applies a course id arriving via the URL. It only takes effect
// when the id is in the current list, and it never overrides a live user
// selection that is still valid; a stale link must not beat the visitor's
// more recent manual pick.
func (m *Machine) ApplyURL(courseID string) State {
	if courseID == "" || !m.ids[courseID] {
		return m.state
	}
	if m.state.Kind == UserSelected && m.ids[m.state.CourseID] {
		return m.state
	}
	m.state = State{Kind: URLDriven, CourseID: courseID}
	return m.state
}

// Select records an explicit user choice. Ids outside the current list are
// ignored to preserve the membership invariant. Reselecting the current
// course is a no-op; changed tells the caller whether to write the URL.
func (m *Machine) Select(courseID string) (State, bool) {
	if !m.ids[courseID] {
		return m.state, false
	}
	if m.state.Kind == UserSelected && m.state.CourseID == courseID {
		return m.state, false
	}
	m.state = State{Kind: UserSelected, CourseID: courseID}
	return m.state, true
}

// Clear empties the selection. The page clears before a grade change so a
// course invalid for the new grade never shows, even for one render; the
// next ApplyList repopulates.
func (m *Machine) Clear() State {
	m.state = State{Kind: Empty}
	return m.state
}
