package memdoc

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fwojciec/regroup"
)

// Interface compliance check.
var _ regroup.Tx = (*Tx)(nil)

// Tx is one unit of work over a Document. It implements regroup.Tx and
// adds authoring methods used by command-line tooling and tests. A Tx and
// any record handles obtained from it are only valid until the enclosing
// Edit, Update, Read or View call returns.
type Tx struct {
	doc *Document
	st  *state

	// ghosts maps instances dissolved in this unit of work to their former
	// type. GroupInstances keeps reporting them, mirroring hosts that do
	// not prune type membership until the unit of work commits.
	ghosts map[regroup.ElementID]regroup.ElementID
}

// ElementExists reports whether id refers to a live element.
func (tx *Tx) ElementExists(id regroup.ElementID) bool {
	_, ok := tx.st.elements[id]
	return ok
}

// ElementLocation returns the element's location.
func (tx *Tx) ElementLocation(id regroup.ElementID) (regroup.Point, error) {
	el, ok := tx.st.elements[id]
	if !ok {
		return regroup.Point{}, fmt.Errorf("element %s: %w", id, ErrElementNotFound)
	}
	return el.location, nil
}

// TranslateElement moves the element by offset. Moving a group instance
// moves its owned members with it.
func (tx *Tx) TranslateElement(id regroup.ElementID, offset regroup.Point) error {
	el, ok := tx.st.elements[id]
	if !ok {
		return fmt.Errorf("element %s: %w", id, ErrElementNotFound)
	}
	el.location = el.location.Add(offset)
	if el.group != nil {
		for _, m := range el.group.members {
			if mel, ok := tx.st.elements[m]; ok {
				mel.location = mel.location.Add(offset)
			}
		}
	}
	return nil
}

// SetPinned sets the element's pinned flag.
func (tx *Tx) SetPinned(id regroup.ElementID, pinned bool) error {
	el, ok := tx.st.elements[id]
	if !ok {
		return fmt.Errorf("element %s: %w", id, ErrElementNotFound)
	}
	el.pinned = pinned
	return nil
}

// GroupInfo snapshots a group instance.
func (tx *Tx) GroupInfo(id regroup.ElementID) (regroup.GroupInfo, error) {
	el, ok := tx.st.elements[id]
	if !ok {
		return regroup.GroupInfo{}, fmt.Errorf("element %s: %w", id, ErrElementNotFound)
	}
	if el.group == nil {
		return regroup.GroupInfo{}, fmt.Errorf("element %s: %w", id, ErrNotAGroup)
	}
	gt, ok := tx.st.types[el.group.typeID]
	if !ok {
		return regroup.GroupInfo{}, fmt.Errorf("type of instance %s: %w", id, ErrTypeNotFound)
	}
	return regroup.GroupInfo{
		Instance: id,
		Type:     el.group.typeID,
		TypeName: gt.name,
		Pinned:   el.pinned,
		Anchor:   el.location,
		Members:  append([]regroup.ElementID(nil), el.group.members...),
	}, nil
}

// CreateGroup composes loose elements into a new instance of a freshly
// created type named "Group N". The instance anchors at the member
// centroid and becomes the type's prototype.
func (tx *Tx) CreateGroup(members []regroup.ElementID) (regroup.GroupInfo, error) {
	if len(members) == 0 {
		return regroup.GroupInfo{}, ErrNoMembers
	}
	var sum regroup.Point
	for _, id := range members {
		el, ok := tx.st.elements[id]
		if !ok {
			return regroup.GroupInfo{}, fmt.Errorf("member %s: %w", id, ErrElementNotFound)
		}
		if el.group != nil {
			return regroup.GroupInfo{}, fmt.Errorf("member %s: %w", id, ErrNestedGroup)
		}
		if !el.memberOf.IsZero() {
			return regroup.GroupInfo{}, fmt.Errorf("member %s: %w", id, ErrElementOwned)
		}
		sum = sum.Add(el.location)
	}
	n := float64(len(members))
	anchor := regroup.Point{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}

	instance := regroup.NewElementID()
	typeID := regroup.NewElementID()
	tx.st.nameSeq++
	tx.st.types[typeID] = &groupType{
		name:      fmt.Sprintf("Group %d", tx.st.nameSeq),
		prototype: instance,
	}
	tx.st.elements[instance] = &element{
		location: anchor,
		group: &groupPayload{
			typeID:  typeID,
			members: append([]regroup.ElementID(nil), members...),
		},
	}
	for _, id := range members {
		tx.st.elements[id].memberOf = instance
	}
	return tx.GroupInfo(instance)
}

// DissolveGroup explodes an instance into loose elements and returns the
// freed member ids. The instance element disappears, but its former type
// keeps reporting it until the unit of work ends.
func (tx *Tx) DissolveGroup(id regroup.ElementID) ([]regroup.ElementID, error) {
	el, ok := tx.st.elements[id]
	if !ok {
		return nil, fmt.Errorf("element %s: %w", id, ErrElementNotFound)
	}
	if el.group == nil {
		return nil, fmt.Errorf("element %s: %w", id, ErrNotAGroup)
	}
	members := append([]regroup.ElementID(nil), el.group.members...)
	for _, m := range members {
		if mel, ok := tx.st.elements[m]; ok {
			mel.memberOf = regroup.ElementID{}
		}
	}
	tx.ghosts[id] = el.group.typeID
	delete(tx.st.elements, id)
	return members, nil
}

// SetGroupType reassigns an instance to another type. The instance's
// current members are discarded and re-stamped from the new type's
// prototype, keeping the instance anchor fixed. Reassigning an instance
// to its own type is a no-op.
func (tx *Tx) SetGroupType(instance, groupType regroup.ElementID) error {
	el, ok := tx.st.elements[instance]
	if !ok {
		return fmt.Errorf("instance %s: %w", instance, ErrElementNotFound)
	}
	if el.group == nil {
		return fmt.Errorf("instance %s: %w", instance, ErrNotAGroup)
	}
	if el.group.typeID == groupType {
		return nil
	}
	gt, ok := tx.st.types[groupType]
	if !ok {
		return fmt.Errorf("type %s: %w", groupType, ErrTypeNotFound)
	}
	for _, m := range el.group.members {
		delete(tx.st.elements, m)
	}
	members, err := tx.stampMembers(gt, instance, el.location)
	if err != nil {
		return err
	}
	el.group = &groupPayload{typeID: groupType, members: members}
	return nil
}

// GroupTypeByName resolves a type name to its id.
func (tx *Tx) GroupTypeByName(name string) (regroup.ElementID, bool) {
	for id, gt := range tx.st.types {
		if gt.name == name {
			return id, true
		}
	}
	return regroup.ElementID{}, false
}

// GroupInstances lists instances of a type sorted by id, including any
// dissolved in this unit of work. Callers filter ids they know to be
// gone.
func (tx *Tx) GroupInstances(groupType regroup.ElementID) []regroup.ElementID {
	var out []regroup.ElementID
	for id, el := range tx.st.elements {
		if el.group != nil && el.group.typeID == groupType {
			out = append(out, id)
		}
	}
	for id, former := range tx.ghosts {
		if former == groupType {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// RenameGroupType renames a type. Type names are unique per document.
func (tx *Tx) RenameGroupType(groupType regroup.ElementID, name string) error {
	gt, ok := tx.st.types[groupType]
	if !ok {
		return fmt.Errorf("type %s: %w", groupType, ErrTypeNotFound)
	}
	for id, other := range tx.st.types {
		if id != groupType && other.name == name {
			return fmt.Errorf("rename to %q: %w", name, ErrNameTaken)
		}
	}
	gt.name = name
	return nil
}

// DeleteGroupType removes a type definition. Deletion is refused while
// live instances remain; instances dissolved in this unit of work do not
// count.
func (tx *Tx) DeleteGroupType(groupType regroup.ElementID) error {
	if _, ok := tx.st.types[groupType]; !ok {
		return fmt.Errorf("type %s: %w", groupType, ErrTypeNotFound)
	}
	for _, el := range tx.st.elements {
		if el.group != nil && el.group.typeID == groupType {
			return fmt.Errorf("type %s: %w", groupType, ErrTypeInUse)
		}
	}
	delete(tx.st.types, groupType)
	return nil
}

// Records returns the session registry: the document-embedded store, or
// the external store the document was opened with.
func (tx *Tx) Records() regroup.RecordStore {
	if tx.doc != nil && tx.doc.records != nil {
		return tx.doc.records
	}
	return &recordStore{st: tx.st}
}

// CreateElement adds a loose element at the given location and returns
// its id.
func (tx *Tx) CreateElement(at regroup.Point) regroup.ElementID {
	id := regroup.NewElementID()
	tx.st.elements[id] = &element{location: at}
	return id
}

// DeleteElement removes a loose element. Owned members belong to their
// instance and group instances must be dissolved instead.
func (tx *Tx) DeleteElement(id regroup.ElementID) error {
	el, ok := tx.st.elements[id]
	if !ok {
		return fmt.Errorf("element %s: %w", id, ErrElementNotFound)
	}
	if el.group != nil {
		return fmt.Errorf("element %s is a group instance, dissolve it instead", id)
	}
	if !el.memberOf.IsZero() {
		return fmt.Errorf("element %s: %w", id, ErrElementOwned)
	}
	delete(tx.st.elements, id)
	return nil
}

// PlaceInstance stamps a new instance of the type at the given location,
// cloning the prototype's members around it.
func (tx *Tx) PlaceInstance(groupType regroup.ElementID, at regroup.Point) (regroup.GroupInfo, error) {
	gt, ok := tx.st.types[groupType]
	if !ok {
		return regroup.GroupInfo{}, fmt.Errorf("type %s: %w", groupType, ErrTypeNotFound)
	}
	instance := regroup.NewElementID()
	members, err := tx.stampMembers(gt, instance, at)
	if err != nil {
		return regroup.GroupInfo{}, err
	}
	tx.st.elements[instance] = &element{
		location: at,
		group:    &groupPayload{typeID: groupType, members: members},
	}
	return tx.GroupInfo(instance)
}

// stampMembers clones the type's prototype members as fresh elements
// owned by instance, preserving their placement relative to the anchor.
func (tx *Tx) stampMembers(gt *groupType, instance regroup.ElementID, anchor regroup.Point) ([]regroup.ElementID, error) {
	proto, ok := tx.st.elements[gt.prototype]
	if !ok || proto.group == nil {
		return nil, fmt.Errorf("prototype of type %q: %w", gt.name, ErrElementNotFound)
	}
	offset := anchor.Sub(proto.location)
	members := make([]regroup.ElementID, 0, len(proto.group.members))
	for _, pm := range proto.group.members {
		pel, ok := tx.st.elements[pm]
		if !ok {
			return nil, fmt.Errorf("prototype member %s: %w", pm, ErrElementNotFound)
		}
		id := regroup.NewElementID()
		tx.st.elements[id] = &element{
			location: pel.location.Add(offset),
			pinned:   pel.pinned,
			memberOf: instance,
		}
		members = append(members, id)
	}
	return members, nil
}

// ElementInfo describes one element for presentation.
type ElementInfo struct {
	ID       regroup.ElementID
	Location regroup.Point
	Pinned   bool
	MemberOf regroup.ElementID // owning instance; zero when loose
	Group    bool              // the element is a group instance
}

// Elements lists every element sorted by id. Ids sort by creation time.
func (tx *Tx) Elements() []ElementInfo {
	ids := make([]regroup.ElementID, 0, len(tx.st.elements))
	for id := range tx.st.elements {
		ids = append(ids, id)
	}
	sortIDs(ids)
	out := make([]ElementInfo, 0, len(ids))
	for _, id := range ids {
		el := tx.st.elements[id]
		out = append(out, ElementInfo{
			ID:       id,
			Location: el.location,
			Pinned:   el.pinned,
			MemberOf: el.memberOf,
			Group:    el.group != nil,
		})
	}
	return out
}

// TypeInfo describes one group type for presentation.
type TypeInfo struct {
	ID        regroup.ElementID
	Name      string
	Instances []regroup.ElementID // live instances, sorted by id
}

// GroupTypes lists every group type sorted by name.
func (tx *Tx) GroupTypes() []TypeInfo {
	out := make([]TypeInfo, 0, len(tx.st.types))
	for id, gt := range tx.st.types {
		info := TypeInfo{ID: id, Name: gt.name}
		for eid, el := range tx.st.elements {
			if el.group != nil && el.group.typeID == id {
				info.Instances = append(info.Instances, eid)
			}
		}
		sortIDs(info.Instances)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortIDs(ids []regroup.ElementID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}
