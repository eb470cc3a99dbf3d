package memdoc

import (
	"context"
	"fmt"
	"sort"

	"github.com/fwojciec/regroup"
	"github.com/google/uuid"
)

// Interface compliance checks.
var (
	_ regroup.RecordStore = (*recordStore)(nil)
	_ regroup.Record      = (*record)(nil)
)

// NewRecordStore returns a standalone in-memory record store, detached
// from any document. Useful as a throwaway registry in tests.
func NewRecordStore() regroup.RecordStore {
	return &recordStore{st: newState()}
}

// recordStore reads and writes the state of the transaction that produced
// it, so record mutations commit and roll back with the document.
type recordStore struct {
	st *state
}

// DefineSchema registers def or returns the existing registration. A
// schema id can only ever map to one field layout.
func (rs *recordStore) DefineSchema(_ context.Context, def regroup.SchemaDef) (regroup.Schema, error) {
	if err := def.Validate(); err != nil {
		return regroup.Schema{}, err
	}
	if existing, ok := rs.st.schemas[def.ID]; ok {
		if !existing.Equal(def) {
			return regroup.Schema{}, fmt.Errorf("schema %q already defined with a different layout: %w", def.ID, regroup.ErrSchemaMismatch)
		}
		return regroup.NewSchema(def.ID), nil
	}
	rs.st.schemas[def.ID] = cloneSchemaDef(def)
	return regroup.NewSchema(def.ID), nil
}

// CreateRecord allocates an empty record of the schema.
func (rs *recordStore) CreateRecord(_ context.Context, schema regroup.Schema) (regroup.Record, error) {
	if _, ok := rs.st.schemas[schema.ID()]; !ok {
		return nil, fmt.Errorf("schema %q not defined: %w", schema.ID(), regroup.ErrSchemaMismatch)
	}
	id := uuid.New()
	rs.st.records[id] = &recordData{schemaID: schema.ID(), fields: make(map[string]any)}
	return &record{st: rs.st, id: id}, nil
}

// ListRecords returns every record of the schema, ordered by record id.
func (rs *recordStore) ListRecords(_ context.Context, schema regroup.Schema) ([]regroup.Record, error) {
	if _, ok := rs.st.schemas[schema.ID()]; !ok {
		return nil, fmt.Errorf("schema %q not defined: %w", schema.ID(), regroup.ErrSchemaMismatch)
	}
	ids := make([]uuid.UUID, 0, len(rs.st.records))
	for id, data := range rs.st.records {
		if data.schemaID == schema.ID() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	out := make([]regroup.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, &record{st: rs.st, id: id})
	}
	return out, nil
}

// DeleteRecord removes the record. Deleting a record that is already gone
// fails with regroup.ErrRecordInvalid.
func (rs *recordStore) DeleteRecord(_ context.Context, rec regroup.Record) error {
	r, ok := rec.(*record)
	if !ok {
		return fmt.Errorf("record %s is foreign to this store: %w", rec.ID(), regroup.ErrRecordInvalid)
	}
	if _, ok := rs.st.records[r.id]; !ok {
		return fmt.Errorf("record %s: %w", r.id, regroup.ErrRecordInvalid)
	}
	delete(rs.st.records, r.id)
	return nil
}

// record is a handle to one record within a particular state. Handles
// obtained inside a unit of work are only valid until it ends.
type record struct {
	st *state
	id uuid.UUID
}

// ID returns the record's identity.
func (r *record) ID() uuid.UUID { return r.id }

// data resolves the record and checks that field name exists with the
// wanted kind.
func (r *record) data(name string, kind regroup.FieldKind) (*recordData, error) {
	data, ok := r.st.records[r.id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", r.id, regroup.ErrRecordInvalid)
	}
	def := r.st.schemas[data.schemaID]
	f, ok := def.Field(name)
	if !ok {
		return nil, fmt.Errorf("schema %q has no field %q: %w", def.ID, name, regroup.ErrSchemaMismatch)
	}
	if f.Kind != kind {
		return nil, fmt.Errorf("field %q holds %s, not %s: %w", name, f.Kind, kind, regroup.ErrSchemaMismatch)
	}
	return data, nil
}

func (r *record) GetString(_ context.Context, name string) (string, error) {
	data, err := r.data(name, regroup.KindString)
	if err != nil {
		return "", err
	}
	v, _ := data.fields[name].(string)
	return v, nil
}

func (r *record) SetString(_ context.Context, name, value string) error {
	data, err := r.data(name, regroup.KindString)
	if err != nil {
		return err
	}
	data.fields[name] = value
	return nil
}

func (r *record) GetBool(_ context.Context, name string) (bool, error) {
	data, err := r.data(name, regroup.KindBool)
	if err != nil {
		return false, err
	}
	v, _ := data.fields[name].(bool)
	return v, nil
}

func (r *record) SetBool(_ context.Context, name string, value bool) error {
	data, err := r.data(name, regroup.KindBool)
	if err != nil {
		return err
	}
	data.fields[name] = value
	return nil
}

func (r *record) GetPoint(_ context.Context, name string) (regroup.Point, error) {
	data, err := r.data(name, regroup.KindPoint)
	if err != nil {
		return regroup.Point{}, err
	}
	v, _ := data.fields[name].(regroup.Point)
	return v, nil
}

func (r *record) SetPoint(_ context.Context, name string, value regroup.Point) error {
	data, err := r.data(name, regroup.KindPoint)
	if err != nil {
		return err
	}
	data.fields[name] = value
	return nil
}

func (r *record) GetID(_ context.Context, name string) (regroup.ElementID, error) {
	data, err := r.data(name, regroup.KindID)
	if err != nil {
		return regroup.ElementID{}, err
	}
	v, _ := data.fields[name].(regroup.ElementID)
	return v, nil
}

func (r *record) SetID(_ context.Context, name string, value regroup.ElementID) error {
	data, err := r.data(name, regroup.KindID)
	if err != nil {
		return err
	}
	data.fields[name] = value
	return nil
}

func (r *record) GetIDList(_ context.Context, name string) ([]regroup.ElementID, error) {
	data, err := r.data(name, regroup.KindIDList)
	if err != nil {
		return nil, err
	}
	v, _ := data.fields[name].([]regroup.ElementID)
	return append([]regroup.ElementID(nil), v...), nil
}

func (r *record) SetIDList(_ context.Context, name string, value []regroup.ElementID) error {
	data, err := r.data(name, regroup.KindIDList)
	if err != nil {
		return err
	}
	data.fields[name] = append([]regroup.ElementID(nil), value...)
	return nil
}
