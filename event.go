package regroup

// Event is a sealed interface representing a session lifecycle event.
// Events are purely informational and fire after the operation's mutations
// have been persisted. Failures come from the operation's error return, not
// from events. The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// SessionStarted signals that a group was decomposed and its edit session
// record persisted.
type SessionStarted struct {
	TypeName string
	Members  []ElementID
}

func (SessionStarted) event() {}

// ElementsAdded signals that ids were appended to the tracked member set.
type ElementsAdded struct {
	TypeName string
	IDs      []ElementID
}

func (ElementsAdded) event() {}

// ElementRemoved signals that an id was removed from the tracked member
// set. Removing an id that was not tracked emits no event.
type ElementRemoved struct {
	TypeName string
	ID       ElementID
}

func (ElementRemoved) event() {}

// SessionFinished signals that the group was recomposed. Siblings is the
// number of other instances migrated to the new definition.
type SessionFinished struct {
	TypeName string
	Instance ElementID
	Siblings int
}

func (SessionFinished) event() {}

// SessionPurged signals that a session record was force-deleted.
// TypeDeleted reports whether a dangling type definition was removed too.
type SessionPurged struct {
	TypeName    string
	TypeDeleted bool
}

func (SessionPurged) event() {}

// Interface compliance checks.
var (
	_ Event = SessionStarted{}
	_ Event = ElementsAdded{}
	_ Event = ElementRemoved{}
	_ Event = SessionFinished{}
	_ Event = SessionPurged{}
)

// SessionOption configures a Session at construction.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	onEvent func(Event)
}

// WithEventHandler sets a callback that receives each lifecycle event.
// If nil or not set, events are silently discarded.
func WithEventHandler(h func(Event)) SessionOption {
	return func(c *sessionConfig) {
		c.onEvent = h
	}
}
