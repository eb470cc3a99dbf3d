package regroup

import "context"

// GroupInfo is a point-in-time snapshot of one group instance. It is read
// once and goes stale as soon as the underlying document changes.
type GroupInfo struct {
	Instance ElementID   // the instance element itself
	Type     ElementID   // the group type definition it instantiates
	TypeName string      // the type's name, unique within a document
	Pinned   bool        // whether the instance is pinned in place
	Anchor   Point       // the instance's anchor point
	Members  []ElementID // elements owned by the instance, in z-order
}

// Tx is the mutable view of a host document inside one unit of work. All
// edit-session operations run against a Tx supplied by the caller; the
// session layer never opens or commits units of work itself.
//
// GroupInstances may include stale ids: hosts are not required to prune the
// instance list of a type within the unit of work that dissolved one of its
// instances. Callers must filter ids they know to be gone before operating
// on the result.
type Tx interface {
	// ElementExists reports whether id refers to a live element.
	ElementExists(id ElementID) bool
	// ElementLocation returns the element's location.
	ElementLocation(id ElementID) (Point, error)
	// TranslateElement moves the element (and, for a group instance, its
	// owned members) by offset.
	TranslateElement(id ElementID, offset Point) error
	// SetPinned sets the element's pinned flag.
	SetPinned(id ElementID, pinned bool) error

	// GroupInfo snapshots a group instance.
	GroupInfo(id ElementID) (GroupInfo, error)
	// CreateGroup composes the given loose elements into a new group
	// instance of a freshly created, uniquely named type. The host chooses
	// the anchor; the snapshot reports it.
	CreateGroup(members []ElementID) (GroupInfo, error)
	// DissolveGroup explodes an instance back into loose elements and
	// returns them. The type definition survives.
	DissolveGroup(id ElementID) ([]ElementID, error)
	// SetGroupType reassigns an instance to a different type. The instance's
	// content is re-derived from the new type's definition.
	SetGroupType(instance, groupType ElementID) error
	// GroupTypeByName resolves a type name to its definition element.
	GroupTypeByName(name string) (ElementID, bool)
	// GroupInstances lists instance ids of a type. See the staleness note
	// in the interface doc.
	GroupInstances(groupType ElementID) []ElementID
	// RenameGroupType renames a type definition.
	RenameGroupType(groupType ElementID, name string) error
	// DeleteGroupType removes a type definition. Hosts reject deletion
	// while live instances of the type remain.
	DeleteGroupType(groupType ElementID) error

	// Records is the document's record store.
	Records() RecordStore
}

// Document owns units of work over a host document.
//
// Update runs fn against a mutable Tx and applies its effects atomically:
// if fn returns an error (or panics), none of the mutations it issued are
// kept. View runs fn against a snapshot whose mutations are always
// discarded.
type Document interface {
	Update(ctx context.Context, fn func(Tx) error) error
	View(ctx context.Context, fn func(Tx) error) error
}
