package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/fwojciec/regroup"
)

// record is a handle to one Redis-stored record. The schema definition is
// captured at creation so kind checks need no extra round trip.
type record struct {
	store *Store
	id    uuid.UUID
	def   regroup.SchemaDef
}

// ID returns the record's identity.
func (r *record) ID() uuid.UUID { return r.id }

func (r *record) kindCheck(name string, kind regroup.FieldKind) error {
	f, ok := r.def.Field(name)
	if !ok {
		return fmt.Errorf("schema %q has no field %q: %w", r.def.ID, name, regroup.ErrSchemaMismatch)
	}
	if f.Kind != kind {
		return fmt.Errorf("field %q holds %s, not %s: %w", name, f.Kind, kind, regroup.ErrSchemaMismatch)
	}
	return nil
}

// getField returns the raw JSON value of the field, or nil when unset.
func (r *record) getField(ctx context.Context, name string, kind regroup.FieldKind) (json.RawMessage, error) {
	if err := r.kindCheck(name, kind); err != nil {
		return nil, err
	}
	doc, err := r.store.loadRecord(ctx, r.id)
	if err != nil {
		return nil, err
	}
	return doc.Fields[name], nil
}

// setField writes the raw JSON value of the field back to Redis.
func (r *record) setField(ctx context.Context, name string, kind regroup.FieldKind, raw json.RawMessage) error {
	if err := r.kindCheck(name, kind); err != nil {
		return err
	}
	doc, err := r.store.loadRecord(ctx, r.id)
	if err != nil {
		return err
	}
	doc.Fields[name] = raw
	return r.store.saveRecord(ctx, r.id, doc)
}

func (r *record) GetString(ctx context.Context, field string) (string, error) {
	raw, err := r.getField(ctx, field, regroup.KindString)
	if err != nil || raw == nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode field %q: %w", field, err)
	}
	return v, nil
}

func (r *record) SetString(ctx context.Context, field string, v string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}
	return r.setField(ctx, field, regroup.KindString, raw)
}

func (r *record) GetBool(ctx context.Context, field string) (bool, error) {
	raw, err := r.getField(ctx, field, regroup.KindBool)
	if err != nil || raw == nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("decode field %q: %w", field, err)
	}
	return v, nil
}

func (r *record) SetBool(ctx context.Context, field string, v bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}
	return r.setField(ctx, field, regroup.KindBool, raw)
}

func (r *record) GetPoint(ctx context.Context, field string) (regroup.Point, error) {
	raw, err := r.getField(ctx, field, regroup.KindPoint)
	if err != nil || raw == nil {
		return regroup.Point{}, err
	}
	var v regroup.Point
	if err := json.Unmarshal(raw, &v); err != nil {
		return regroup.Point{}, fmt.Errorf("decode field %q: %w", field, err)
	}
	return v, nil
}

func (r *record) SetPoint(ctx context.Context, field string, v regroup.Point) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}
	return r.setField(ctx, field, regroup.KindPoint, raw)
}

func (r *record) GetID(ctx context.Context, field string) (regroup.ElementID, error) {
	raw, err := r.getField(ctx, field, regroup.KindID)
	if err != nil || raw == nil {
		return regroup.ElementID{}, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return regroup.ElementID{}, fmt.Errorf("decode field %q: %w", field, err)
	}
	if s == "" {
		return regroup.ElementID{}, nil
	}
	id, err := regroup.ParseElementID(s)
	if err != nil {
		return regroup.ElementID{}, fmt.Errorf("decode field %q: %w", field, err)
	}
	return id, nil
}

func (r *record) SetID(ctx context.Context, field string, v regroup.ElementID) error {
	s := ""
	if !v.IsZero() {
		s = v.String()
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}
	return r.setField(ctx, field, regroup.KindID, raw)
}

func (r *record) GetIDList(ctx context.Context, field string) ([]regroup.ElementID, error) {
	raw, err := r.getField(ctx, field, regroup.KindIDList)
	if err != nil || raw == nil {
		return nil, err
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, fmt.Errorf("decode field %q: %w", field, err)
	}
	ids := make([]regroup.ElementID, len(ss))
	for i, s := range ss {
		id, err := regroup.ParseElementID(s)
		if err != nil {
			return nil, fmt.Errorf("decode field %q: %w", field, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func (r *record) SetIDList(ctx context.Context, field string, v []regroup.ElementID) error {
	ss := make([]string, len(v))
	for i, id := range v {
		ss[i] = id.String()
	}
	raw, err := json.Marshal(ss)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", field, err)
	}
	return r.setField(ctx, field, regroup.KindIDList, raw)
}
