package memdoc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fwojciec/regroup"
	"github.com/google/uuid"
)

// envelope is the v1 wire format for a persisted document. Schemas and
// records persist alongside the geometry so open edit sessions survive
// save and reload.
type envelope struct {
	Version  int                 `json:"version"`
	NameSeq  int                 `json:"name_seq"`
	Elements []elementDTO        `json:"elements"`
	Types    []typeDTO           `json:"group_types"`
	Schemas  []regroup.SchemaDef `json:"schemas,omitempty"`
	Records  []recordDTO         `json:"records,omitempty"`
}

// elementDTO is the JSON representation of an element.
type elementDTO struct {
	ID       string        `json:"id"`
	Location regroup.Point `json:"location"`
	Pinned   bool          `json:"pinned,omitempty"`
	MemberOf string        `json:"member_of,omitempty"`
	Group    *groupDTO     `json:"group,omitempty"`
}

type groupDTO struct {
	Type    string   `json:"type"`
	Members []string `json:"members"`
}

type typeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Prototype string `json:"prototype"`
}

// recordDTO carries record fields as raw JSON; each value is decoded
// according to the field's declared kind.
type recordDTO struct {
	ID     string                     `json:"id"`
	Schema string                     `json:"schema"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// Marshal serializes the committed document state to JSON in v1 envelope
// format. Output is deterministic: everything is ordered by id.
func Marshal(d *Document) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st := d.st

	env := envelope{Version: 1, NameSeq: st.nameSeq}

	elemIDs := make([]regroup.ElementID, 0, len(st.elements))
	for id := range st.elements {
		elemIDs = append(elemIDs, id)
	}
	sortIDs(elemIDs)
	for _, id := range elemIDs {
		el := st.elements[id]
		dto := elementDTO{
			ID:       id.String(),
			Location: el.location,
			Pinned:   el.pinned,
			MemberOf: idString(el.memberOf),
		}
		if el.group != nil {
			g := groupDTO{Type: el.group.typeID.String()}
			for _, m := range el.group.members {
				g.Members = append(g.Members, m.String())
			}
			dto.Group = &g
		}
		env.Elements = append(env.Elements, dto)
	}

	typeIDs := make([]regroup.ElementID, 0, len(st.types))
	for id := range st.types {
		typeIDs = append(typeIDs, id)
	}
	sortIDs(typeIDs)
	for _, id := range typeIDs {
		gt := st.types[id]
		env.Types = append(env.Types, typeDTO{
			ID:        id.String(),
			Name:      gt.name,
			Prototype: gt.prototype.String(),
		})
	}

	schemaIDs := make([]string, 0, len(st.schemas))
	for id := range st.schemas {
		schemaIDs = append(schemaIDs, id)
	}
	sort.Strings(schemaIDs)
	for _, id := range schemaIDs {
		env.Schemas = append(env.Schemas, st.schemas[id])
	}

	recIDs := make([]uuid.UUID, 0, len(st.records))
	for id := range st.records {
		recIDs = append(recIDs, id)
	}
	sort.Slice(recIDs, func(i, j int) bool { return recIDs[i].String() < recIDs[j].String() })
	for _, id := range recIDs {
		dto, err := marshalRecord(st, id)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		env.Records = append(env.Records, dto)
	}

	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal deserializes a document from JSON in v1 envelope format.
func Unmarshal(data []byte, opts ...Option) (*Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}

	st := newState()
	st.nameSeq = env.NameSeq
	for i, dto := range env.Elements {
		id, err := parseID(dto.ID)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		memberOf, err := parseID(dto.MemberOf)
		if err != nil {
			return nil, fmt.Errorf("element %d owner: %w", i, err)
		}
		el := &element{location: dto.Location, pinned: dto.Pinned, memberOf: memberOf}
		if dto.Group != nil {
			typeID, err := parseID(dto.Group.Type)
			if err != nil {
				return nil, fmt.Errorf("element %d type: %w", i, err)
			}
			g := &groupPayload{typeID: typeID}
			for j, m := range dto.Group.Members {
				mid, err := parseID(m)
				if err != nil {
					return nil, fmt.Errorf("element %d member %d: %w", i, j, err)
				}
				g.members = append(g.members, mid)
			}
			el.group = g
		}
		st.elements[id] = el
	}
	for i, dto := range env.Types {
		id, err := parseID(dto.ID)
		if err != nil {
			return nil, fmt.Errorf("group type %d: %w", i, err)
		}
		proto, err := parseID(dto.Prototype)
		if err != nil {
			return nil, fmt.Errorf("group type %d prototype: %w", i, err)
		}
		st.types[id] = &groupType{name: dto.Name, prototype: proto}
	}
	for i, def := range env.Schemas {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("schema %d: %w", i, err)
		}
		st.schemas[def.ID] = cloneSchemaDef(def)
	}
	for i, dto := range env.Records {
		if err := unmarshalRecord(st, dto); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	d := New(opts...)
	d.st = st
	return d, nil
}

// Save writes the document to a JSON file atomically, creating parent
// directories as needed.
func Save(path string, d *Document) error {
	data, err := Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Open reads a document from a JSON file.
func Open(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Unmarshal(data, opts...)
}

func marshalRecord(st *state, id uuid.UUID) (recordDTO, error) {
	data := st.records[id]
	def, ok := st.schemas[data.schemaID]
	if !ok {
		return recordDTO{}, fmt.Errorf("schema %q not defined: %w", data.schemaID, regroup.ErrSchemaMismatch)
	}
	dto := recordDTO{
		ID:     id.String(),
		Schema: data.schemaID,
		Fields: make(map[string]json.RawMessage, len(data.fields)),
	}
	for name, v := range data.fields {
		f, ok := def.Field(name)
		if !ok {
			return recordDTO{}, fmt.Errorf("schema %q has no field %q: %w", def.ID, name, regroup.ErrSchemaMismatch)
		}
		raw, err := marshalFieldValue(f.Kind, v)
		if err != nil {
			return recordDTO{}, fmt.Errorf("field %q: %w", name, err)
		}
		dto.Fields[name] = raw
	}
	return dto, nil
}

func unmarshalRecord(st *state, dto recordDTO) error {
	id, err := uuid.Parse(dto.ID)
	if err != nil {
		return fmt.Errorf("parse id: %w", err)
	}
	def, ok := st.schemas[dto.Schema]
	if !ok {
		return fmt.Errorf("schema %q not defined: %w", dto.Schema, regroup.ErrSchemaMismatch)
	}
	data := &recordData{schemaID: dto.Schema, fields: make(map[string]any, len(dto.Fields))}
	for name, raw := range dto.Fields {
		f, ok := def.Field(name)
		if !ok {
			return fmt.Errorf("schema %q has no field %q: %w", def.ID, name, regroup.ErrSchemaMismatch)
		}
		v, err := unmarshalFieldValue(f.Kind, raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		data.fields[name] = v
	}
	st.records[id] = data
	return nil
}

// marshalFieldValue encodes a field value as JSON according to its kind:
// strings and bools verbatim, points as objects, ids as their canonical
// text form ("" for the zero id).
func marshalFieldValue(kind regroup.FieldKind, v any) (json.RawMessage, error) {
	switch kind {
	case regroup.KindString:
		s, _ := v.(string)
		return json.Marshal(s)
	case regroup.KindBool:
		b, _ := v.(bool)
		return json.Marshal(b)
	case regroup.KindPoint:
		p, _ := v.(regroup.Point)
		return json.Marshal(p)
	case regroup.KindID:
		id, _ := v.(regroup.ElementID)
		return json.Marshal(idString(id))
	case regroup.KindIDList:
		ids, _ := v.([]regroup.ElementID)
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = id.String()
		}
		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown field kind %d: %w", int(kind), regroup.ErrSchemaMismatch)
	}
}

func unmarshalFieldValue(kind regroup.FieldKind, raw json.RawMessage) (any, error) {
	switch kind {
	case regroup.KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case regroup.KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case regroup.KindPoint:
		var p regroup.Point
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case regroup.KindID:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return parseID(s)
	case regroup.KindIDList:
		var ss []string
		if err := json.Unmarshal(raw, &ss); err != nil {
			return nil, err
		}
		ids := make([]regroup.ElementID, len(ss))
		for i, s := range ss {
			id, err := regroup.ParseElementID(s)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("unknown field kind %d: %w", int(kind), regroup.ErrSchemaMismatch)
	}
}

func idString(id regroup.ElementID) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}

func parseID(s string) (regroup.ElementID, error) {
	if s == "" {
		return regroup.ElementID{}, nil
	}
	return regroup.ParseElementID(s)
}
