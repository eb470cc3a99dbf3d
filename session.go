package regroup

import (
	"context"
	"fmt"
	"sort"
)

// SessionSchemaID is the stable identifier of the edit session schema.
// Documents carrying open sessions depend on it across saves and process
// restarts; a layout change mints a new identifier rather than mutating
// this one.
const SessionSchemaID = "regroup.session.v1"

// Session record field names.
const (
	fieldGroupType      = "group_type"
	fieldPinned         = "pinned"
	fieldAnchor         = "anchor"
	fieldSourceInstance = "source_instance"
	fieldMembers        = "members"
)

// SessionSchema returns the layout of edit session records.
func SessionSchema() SchemaDef {
	return SchemaDef{
		ID: SessionSchemaID,
		Fields: []Field{
			{Name: fieldGroupType, Kind: KindString},
			{Name: fieldPinned, Kind: KindBool},
			{Name: fieldAnchor, Kind: KindPoint},
			{Name: fieldSourceInstance, Kind: KindID},
			{Name: fieldMembers, Kind: KindIDList},
		},
	}
}

// SessionState enumerates the edit session lifecycle.
type SessionState int

const (
	StateCaptured SessionState = iota // constructed from an intact group, nothing persisted
	StateOpen                         // group decomposed, members tracked in the record
	StateFinished                     // group recomposed; terminal
)

func (st SessionState) String() string {
	switch st {
	case StateCaptured:
		return "captured"
	case StateOpen:
		return "open"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("SessionState(%d)", int(st))
	}
}

// Session tracks the temporary decomposition of one group type so its
// member set can be edited and the group recomposed later, possibly in a
// different process against a reloaded document.
//
// A Session value holds only the group type name and its lifecycle state.
// Everything else lives in the session record and is re-read from the
// record store on every operation, so concurrent record mutations (or a
// document reload between operations) are always observed.
type Session struct {
	typeName string
	state    SessionState
	seed     *GroupInfo // snapshot for StartEditing; nil once open
	onEvent  func(Event)
}

// NewSession prepares an edit session for the given group instance's type.
// Nothing is persisted until StartEditing. Fails with ErrAlreadyEditing
// when a session record for the type name already exists.
func NewSession(ctx context.Context, tx Tx, instance ElementID, opts ...SessionOption) (*Session, error) {
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	info, err := tx.GroupInfo(instance)
	if err != nil {
		return nil, fmt.Errorf("snapshot group %s: %w", instance, err)
	}
	_, ok, err := findSessionRecord(ctx, tx.Records(), info.TypeName)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("group type %q: %w", info.TypeName, ErrAlreadyEditing)
	}
	return &Session{typeName: info.TypeName, state: StateCaptured, seed: &info, onEvent: cfg.onEvent}, nil
}

// ResumeSession reattaches to a persisted session by group type name, e.g.
// after a process restart. The returned session is open. Fails with
// ErrSessionNotFound when no session record exists for the name.
func ResumeSession(ctx context.Context, tx Tx, typeName string, opts ...SessionOption) (*Session, error) {
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	_, ok, err := findSessionRecord(ctx, tx.Records(), typeName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("group type %q: %w", typeName, ErrSessionNotFound)
	}
	return &Session{typeName: typeName, state: StateOpen, onEvent: cfg.onEvent}, nil
}

// TypeName returns the group type name the session edits.
func (s *Session) TypeName() string {
	return s.typeName
}

// State returns the session's lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// StartEditing decomposes the group: it persists the session record, then
// dissolves the reference instance, and deletes the type definition when
// that instance was the last of its type. Fails with ErrSessionAlreadyOpen
// when the session is already open (resumed sessions always are).
func (s *Session) StartEditing(ctx context.Context, tx Tx) error {
	if s.state != StateCaptured {
		return fmt.Errorf("group type %q: %w", s.typeName, ErrSessionAlreadyOpen)
	}
	store := tx.Records()
	_, ok, err := findSessionRecord(ctx, store, s.typeName)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("group type %q: %w", s.typeName, ErrAlreadyEditing)
	}

	// Re-read the snapshot: the group may have changed since NewSession.
	info, err := tx.GroupInfo(s.seed.Instance)
	if err != nil {
		return fmt.Errorf("snapshot group %s: %w", s.seed.Instance, err)
	}

	schema, err := store.DefineSchema(ctx, SessionSchema())
	if err != nil {
		return fmt.Errorf("define session schema: %w", err)
	}
	rec, err := store.CreateRecord(ctx, schema)
	if err != nil {
		return fmt.Errorf("create session record: %w", err)
	}
	patch := sessionPatch{
		groupType:      &info.TypeName,
		pinned:         &info.Pinned,
		anchor:         &info.Anchor,
		sourceInstance: &info.Instance,
		members:        &info.Members,
	}
	if err := patch.apply(ctx, rec); err != nil {
		return err
	}

	// Count live siblings before dissolving; afterwards the enumeration may
	// or may not still include the dissolved instance.
	others := 0
	for _, inst := range tx.GroupInstances(info.Type) {
		if inst != info.Instance && tx.ElementExists(inst) {
			others++
		}
	}
	if _, err := tx.DissolveGroup(info.Instance); err != nil {
		return fmt.Errorf("dissolve group %s: %w", info.Instance, err)
	}
	if others == 0 {
		if err := tx.DeleteGroupType(info.Type); err != nil {
			return fmt.Errorf("delete group type %q: %w", s.typeName, err)
		}
	}

	s.state = StateOpen
	s.seed = nil
	s.emit(SessionStarted{TypeName: s.typeName, Members: info.Members})
	return nil
}

// AddElement appends id to the tracked member set.
func (s *Session) AddElement(ctx context.Context, tx Tx, id ElementID) error {
	return s.AddElements(ctx, tx, []ElementID{id})
}

// AddElements appends ids to the tracked member set in order. Ids are not
// validated against the document; tracking an element that has been (or is
// later) deleted is allowed, and unresolvable ids are dropped at
// FinishEditing.
func (s *Session) AddElements(ctx context.Context, tx Tx, ids []ElementID) error {
	if s.state != StateOpen {
		return fmt.Errorf("group type %q: %w", s.typeName, ErrSessionNotOpen)
	}
	if len(ids) == 0 {
		return nil
	}
	data, err := s.load(ctx, tx.Records())
	if err != nil {
		return err
	}
	members := append(data.members, ids...)
	if err := (sessionPatch{members: &members}).apply(ctx, data.rec); err != nil {
		return err
	}
	s.emit(ElementsAdded{TypeName: s.typeName, IDs: ids})
	return nil
}

// RemoveElement removes the first occurrence of id from the tracked member
// set. Removing an id that is not tracked is a no-op, so callers can treat
// "not in the group" as the desired end state rather than an error.
func (s *Session) RemoveElement(ctx context.Context, tx Tx, id ElementID) error {
	if s.state != StateOpen {
		return fmt.Errorf("group type %q: %w", s.typeName, ErrSessionNotOpen)
	}
	data, err := s.load(ctx, tx.Records())
	if err != nil {
		return err
	}
	idx := -1
	for i, m := range data.members {
		if m == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	members := append(data.members[:idx:idx], data.members[idx+1:]...)
	if err := (sessionPatch{members: &members}).apply(ctx, data.rec); err != nil {
		return err
	}
	s.emit(ElementRemoved{TypeName: s.typeName, ID: id})
	return nil
}

// Members returns the tracked member set as currently persisted.
func (s *Session) Members(ctx context.Context, tx Tx) ([]ElementID, error) {
	if s.state != StateOpen {
		return nil, fmt.Errorf("group type %q: %w", s.typeName, ErrSessionNotOpen)
	}
	data, err := s.load(ctx, tx.Records())
	if err != nil {
		return nil, err
	}
	return data.members, nil
}

// FinishEditing recomposes the group from the tracked members that still
// exist, migrates every other instance of the original type to the new
// definition, restores the recorded name and pinned flag, and deletes the
// session record. It returns the new instance's id.
//
// When none of the tracked members exist the session stays open with its
// record intact and ErrNoResolvableMembers is returned, so the caller can
// add elements and retry.
func (s *Session) FinishEditing(ctx context.Context, tx Tx) (ElementID, error) {
	if s.state != StateOpen {
		return ElementID{}, fmt.Errorf("group type %q: %w", s.typeName, ErrSessionNotOpen)
	}
	store := tx.Records()
	data, err := s.load(ctx, store)
	if err != nil {
		return ElementID{}, err
	}

	live := make([]ElementID, 0, len(data.members))
	for _, id := range data.members {
		if tx.ElementExists(id) {
			live = append(live, id)
		}
	}
	if len(live) == 0 {
		return ElementID{}, fmt.Errorf("group type %q: %w", s.typeName, ErrNoResolvableMembers)
	}

	info, err := tx.CreateGroup(live)
	if err != nil {
		return ElementID{}, fmt.Errorf("compose group: %w", err)
	}

	siblings := 0
	if oldType, ok := tx.GroupTypeByName(data.groupType); ok {
		offset := info.Anchor.Sub(data.anchor)
		for _, inst := range tx.GroupInstances(oldType) {
			// The enumeration may still include the instance dissolved by
			// StartEditing. Skip it by identity; it must not be migrated.
			if inst == data.sourceInstance {
				continue
			}
			if err := tx.SetGroupType(inst, info.Type); err != nil {
				return ElementID{}, fmt.Errorf("migrate instance %s: %w", inst, err)
			}
			if err := tx.TranslateElement(inst, offset); err != nil {
				return ElementID{}, fmt.Errorf("translate instance %s: %w", inst, err)
			}
			siblings++
		}
		if err := tx.DeleteGroupType(oldType); err != nil {
			return ElementID{}, fmt.Errorf("delete group type %q: %w", data.groupType, err)
		}
	}

	if err := tx.RenameGroupType(info.Type, data.groupType); err != nil {
		return ElementID{}, fmt.Errorf("rename group type to %q: %w", data.groupType, err)
	}
	if err := tx.SetPinned(info.Instance, data.pinned); err != nil {
		return ElementID{}, fmt.Errorf("restore pinned flag: %w", err)
	}
	if err := store.DeleteRecord(ctx, data.rec); err != nil {
		return ElementID{}, fmt.Errorf("delete session record: %w", err)
	}

	s.state = StateFinished
	s.emit(SessionFinished{TypeName: s.typeName, Instance: info.Instance, Siblings: siblings})
	return info.Instance, nil
}

// ActiveSessionNames lists the group type names that have a persisted
// session record, sorted and deduplicated.
func ActiveSessionNames(ctx context.Context, store RecordStore) ([]string, error) {
	all, err := listSessionRecords(ctx, store)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	names := make([]string, 0, len(all))
	for _, d := range all {
		if d.groupType == "" || seen[d.groupType] {
			continue
		}
		seen[d.groupType] = true
		names = append(names, d.groupType)
	}
	sort.Strings(names)
	return names, nil
}

// ForceDeleteSession abandons a persisted session without recomposing. The
// record is deleted, and when a type of that name survives with no live
// instances the dangling definition is removed too. Already-dissolved
// members stay loose. Fails with ErrSessionNotFound when no session record
// exists for the name.
func ForceDeleteSession(ctx context.Context, tx Tx, typeName string, opts ...SessionOption) error {
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	store := tx.Records()
	data, ok, err := findSessionRecord(ctx, store, typeName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group type %q: %w", typeName, ErrSessionNotFound)
	}
	if err := store.DeleteRecord(ctx, data.rec); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	typeDeleted := false
	if id, found := tx.GroupTypeByName(typeName); found {
		liveInstances := 0
		for _, inst := range tx.GroupInstances(id) {
			if tx.ElementExists(inst) {
				liveInstances++
			}
		}
		if liveInstances == 0 {
			if err := tx.DeleteGroupType(id); err != nil {
				return fmt.Errorf("delete group type %q: %w", typeName, err)
			}
			typeDeleted = true
		}
	}
	if cfg.onEvent != nil {
		cfg.onEvent(SessionPurged{TypeName: typeName, TypeDeleted: typeDeleted})
	}
	return nil
}

func (s *Session) emit(ev Event) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}

// load re-reads the session's record. The record is the source of truth;
// nothing read in an earlier operation is reused.
func (s *Session) load(ctx context.Context, store RecordStore) (sessionData, error) {
	data, ok, err := findSessionRecord(ctx, store, s.typeName)
	if err != nil {
		return sessionData{}, err
	}
	if !ok {
		return sessionData{}, fmt.Errorf("group type %q: %w", s.typeName, ErrSessionNotFound)
	}
	return data, nil
}

// sessionData mirrors one session record's fields.
type sessionData struct {
	rec            Record
	groupType      string
	pinned         bool
	anchor         Point
	sourceInstance ElementID
	members        []ElementID
}

// sessionPatch is a partial update of a session record: only non-nil fields
// are written. The zero patch writes nothing.
type sessionPatch struct {
	groupType      *string
	pinned         *bool
	anchor         *Point
	sourceInstance *ElementID
	members        *[]ElementID
}

func (p sessionPatch) apply(ctx context.Context, rec Record) error {
	if p.groupType != nil {
		if err := rec.SetString(ctx, fieldGroupType, *p.groupType); err != nil {
			return fmt.Errorf("set %s: %w", fieldGroupType, err)
		}
	}
	if p.pinned != nil {
		if err := rec.SetBool(ctx, fieldPinned, *p.pinned); err != nil {
			return fmt.Errorf("set %s: %w", fieldPinned, err)
		}
	}
	if p.anchor != nil {
		if err := rec.SetPoint(ctx, fieldAnchor, *p.anchor); err != nil {
			return fmt.Errorf("set %s: %w", fieldAnchor, err)
		}
	}
	if p.sourceInstance != nil {
		if err := rec.SetID(ctx, fieldSourceInstance, *p.sourceInstance); err != nil {
			return fmt.Errorf("set %s: %w", fieldSourceInstance, err)
		}
	}
	if p.members != nil {
		if err := rec.SetIDList(ctx, fieldMembers, *p.members); err != nil {
			return fmt.Errorf("set %s: %w", fieldMembers, err)
		}
	}
	return nil
}

func findSessionRecord(ctx context.Context, store RecordStore, typeName string) (sessionData, bool, error) {
	all, err := listSessionRecords(ctx, store)
	if err != nil {
		return sessionData{}, false, err
	}
	for _, d := range all {
		if d.groupType == typeName {
			return d, true, nil
		}
	}
	return sessionData{}, false, nil
}

func listSessionRecords(ctx context.Context, store RecordStore) ([]sessionData, error) {
	schema, err := store.DefineSchema(ctx, SessionSchema())
	if err != nil {
		return nil, fmt.Errorf("define session schema: %w", err)
	}
	recs, err := store.ListRecords(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	out := make([]sessionData, 0, len(recs))
	for _, rec := range recs {
		d, err := loadSessionData(ctx, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func loadSessionData(ctx context.Context, rec Record) (sessionData, error) {
	d := sessionData{rec: rec}
	var err error
	if d.groupType, err = rec.GetString(ctx, fieldGroupType); err != nil {
		return sessionData{}, err
	}
	if d.pinned, err = rec.GetBool(ctx, fieldPinned); err != nil {
		return sessionData{}, err
	}
	if d.anchor, err = rec.GetPoint(ctx, fieldAnchor); err != nil {
		return sessionData{}, err
	}
	if d.sourceInstance, err = rec.GetID(ctx, fieldSourceInstance); err != nil {
		return sessionData{}, err
	}
	if d.members, err = rec.GetIDList(ctx, fieldMembers); err != nil {
		return sessionData{}, err
	}
	return d, nil
}
