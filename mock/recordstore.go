package mock

import (
	"context"

	"github.com/fwojciec/regroup"
	"github.com/google/uuid"
)

// Interface compliance checks.
var (
	_ regroup.RecordStore = (*RecordStore)(nil)
	_ regroup.Record      = (*Record)(nil)
)

// RecordStore is a test double for regroup.RecordStore.
// Set the function fields for the methods you need.
type RecordStore struct {
	DefineSchemaFn func(ctx context.Context, def regroup.SchemaDef) (regroup.Schema, error)
	CreateRecordFn func(ctx context.Context, schema regroup.Schema) (regroup.Record, error)
	ListRecordsFn  func(ctx context.Context, schema regroup.Schema) ([]regroup.Record, error)
	DeleteRecordFn func(ctx context.Context, rec regroup.Record) error
}

// DefineSchema delegates to DefineSchemaFn.
func (s *RecordStore) DefineSchema(ctx context.Context, def regroup.SchemaDef) (regroup.Schema, error) {
	return s.DefineSchemaFn(ctx, def)
}

// CreateRecord delegates to CreateRecordFn.
func (s *RecordStore) CreateRecord(ctx context.Context, schema regroup.Schema) (regroup.Record, error) {
	return s.CreateRecordFn(ctx, schema)
}

// ListRecords delegates to ListRecordsFn.
func (s *RecordStore) ListRecords(ctx context.Context, schema regroup.Schema) ([]regroup.Record, error) {
	return s.ListRecordsFn(ctx, schema)
}

// DeleteRecord delegates to DeleteRecordFn.
func (s *RecordStore) DeleteRecord(ctx context.Context, rec regroup.Record) error {
	return s.DeleteRecordFn(ctx, rec)
}

// Record is a test double for regroup.Record.
// Set the function fields for the methods you need.
type Record struct {
	IDFn func() uuid.UUID

	GetStringFn func(ctx context.Context, field string) (string, error)
	SetStringFn func(ctx context.Context, field string, v string) error

	GetBoolFn func(ctx context.Context, field string) (bool, error)
	SetBoolFn func(ctx context.Context, field string, v bool) error

	GetPointFn func(ctx context.Context, field string) (regroup.Point, error)
	SetPointFn func(ctx context.Context, field string, v regroup.Point) error

	GetIDFn func(ctx context.Context, field string) (regroup.ElementID, error)
	SetIDFn func(ctx context.Context, field string, v regroup.ElementID) error

	GetIDListFn func(ctx context.Context, field string) ([]regroup.ElementID, error)
	SetIDListFn func(ctx context.Context, field string, v []regroup.ElementID) error
}

// ID delegates to IDFn.
func (r *Record) ID() uuid.UUID {
	return r.IDFn()
}

// GetString delegates to GetStringFn.
func (r *Record) GetString(ctx context.Context, field string) (string, error) {
	return r.GetStringFn(ctx, field)
}

// SetString delegates to SetStringFn.
func (r *Record) SetString(ctx context.Context, field string, v string) error {
	return r.SetStringFn(ctx, field, v)
}

// GetBool delegates to GetBoolFn.
func (r *Record) GetBool(ctx context.Context, field string) (bool, error) {
	return r.GetBoolFn(ctx, field)
}

// SetBool delegates to SetBoolFn.
func (r *Record) SetBool(ctx context.Context, field string, v bool) error {
	return r.SetBoolFn(ctx, field, v)
}

// GetPoint delegates to GetPointFn.
func (r *Record) GetPoint(ctx context.Context, field string) (regroup.Point, error) {
	return r.GetPointFn(ctx, field)
}

// SetPoint delegates to SetPointFn.
func (r *Record) SetPoint(ctx context.Context, field string, v regroup.Point) error {
	return r.SetPointFn(ctx, field, v)
}

// GetID delegates to GetIDFn.
func (r *Record) GetID(ctx context.Context, field string) (regroup.ElementID, error) {
	return r.GetIDFn(ctx, field)
}

// SetID delegates to SetIDFn.
func (r *Record) SetID(ctx context.Context, field string, v regroup.ElementID) error {
	return r.SetIDFn(ctx, field, v)
}

// GetIDList delegates to GetIDListFn.
func (r *Record) GetIDList(ctx context.Context, field string) ([]regroup.ElementID, error) {
	return r.GetIDListFn(ctx, field)
}

// SetIDList delegates to SetIDListFn.
func (r *Record) SetIDList(ctx context.Context, field string, v []regroup.ElementID) error {
	return r.SetIDListFn(ctx, field, v)
}
