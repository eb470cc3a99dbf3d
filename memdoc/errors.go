package memdoc

import "errors"

// Sentinel errors for document misuse.
var (
	// ErrElementNotFound indicates an id that resolves to no live element.
	ErrElementNotFound = errors.New("element not found")

	// ErrNotAGroup indicates a group operation on an element that is not a
	// group instance.
	ErrNotAGroup = errors.New("element is not a group instance")

	// ErrElementOwned indicates an element owned by a group instance was
	// used where a loose element is required.
	ErrElementOwned = errors.New("element is owned by a group instance")

	// ErrNestedGroup indicates an attempt to place a group instance inside
	// another group. Nested groups are not supported.
	ErrNestedGroup = errors.New("nested groups are not supported")

	// ErrNoMembers indicates a group composition with no members.
	ErrNoMembers = errors.New("group needs at least one member")

	// ErrTypeNotFound indicates an id that resolves to no group type.
	ErrTypeNotFound = errors.New("group type not found")

	// ErrTypeInUse indicates deletion of a group type that still has live
	// instances.
	ErrTypeInUse = errors.New("group type has live instances")

	// ErrNameTaken indicates a rename to a name another group type holds.
	ErrNameTaken = errors.New("group type name already taken")
)
