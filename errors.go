package regroup

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrAlreadyEditing indicates an edit session already exists for the group type.
	ErrAlreadyEditing = errors.New("group type is already being edited")

	// ErrSessionNotFound indicates no edit session exists for the group type.
	ErrSessionNotFound = errors.New("edit session not found")

	// ErrSessionAlreadyOpen indicates StartEditing was called on an open session.
	ErrSessionAlreadyOpen = errors.New("edit session already open")

	// ErrSessionNotOpen indicates a member mutation or FinishEditing was
	// attempted on a session that has not been started.
	ErrSessionNotOpen = errors.New("edit session not open")

	// ErrNoResolvableMembers indicates every tracked member was deleted while
	// the session was open, so there is nothing to recompose.
	ErrNoResolvableMembers = errors.New("no resolvable members")

	// ErrSchemaMismatch indicates a field access that disagrees with the
	// record's schema, or a schema redefinition with a different layout.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrRecordInvalid indicates an operation on a deleted record.
	ErrRecordInvalid = errors.New("record invalid")
)
