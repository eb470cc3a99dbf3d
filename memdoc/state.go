package memdoc

import (
	"github.com/fwojciec/regroup"
	"github.com/google/uuid"
)

// element is one document element: loose geometry, a member owned by a
// group instance, or a group instance itself (group != nil).
type element struct {
	location regroup.Point
	pinned   bool
	memberOf regroup.ElementID // owning instance; zero when loose
	group    *groupPayload     // set when the element is a group instance
}

type groupPayload struct {
	typeID  regroup.ElementID
	members []regroup.ElementID
}

// groupType is a named group definition. New instances are stamped from
// the prototype instance's members.
type groupType struct {
	name      string
	prototype regroup.ElementID
}

// recordData is one stored record: a schema reference plus field values.
// Values hold the Go type matching the field kind: string, bool,
// regroup.Point, regroup.ElementID or []regroup.ElementID.
type recordData struct {
	schemaID string
	fields   map[string]any
}

type state struct {
	elements map[regroup.ElementID]*element
	types    map[regroup.ElementID]*groupType
	schemas  map[string]regroup.SchemaDef
	records  map[uuid.UUID]*recordData
	nameSeq  int
}

func newState() *state {
	return &state{
		elements: make(map[regroup.ElementID]*element),
		types:    make(map[regroup.ElementID]*groupType),
		schemas:  make(map[string]regroup.SchemaDef),
		records:  make(map[uuid.UUID]*recordData),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nameSeq = s.nameSeq
	for id, el := range s.elements {
		c.elements[id] = el.clone()
	}
	for id, gt := range s.types {
		cp := *gt
		c.types[id] = &cp
	}
	for id, def := range s.schemas {
		c.schemas[id] = cloneSchemaDef(def)
	}
	for id, rec := range s.records {
		c.records[id] = rec.clone()
	}
	return c
}

func (e *element) clone() *element {
	cp := *e
	if e.group != nil {
		g := *e.group
		g.members = append([]regroup.ElementID(nil), e.group.members...)
		cp.group = &g
	}
	return &cp
}

func cloneSchemaDef(def regroup.SchemaDef) regroup.SchemaDef {
	def.Fields = append([]regroup.Field(nil), def.Fields...)
	return def
}

func (r *recordData) clone() *recordData {
	cp := &recordData{schemaID: r.schemaID, fields: make(map[string]any, len(r.fields))}
	for name, v := range r.fields {
		if ids, ok := v.([]regroup.ElementID); ok {
			v = append([]regroup.ElementID(nil), ids...)
		}
		cp.fields[name] = v
	}
	return cp
}
