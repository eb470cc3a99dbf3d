package regroup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FieldKind enumerates the value types a record field can hold.
type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindPoint
	KindID
	KindIDList
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindPoint:
		return "point"
	case KindID:
		return "id"
	case KindIDList:
		return "id_list"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// ParseFieldKind is the inverse of String.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "string":
		return KindString, nil
	case "bool":
		return KindBool, nil
	case "point":
		return KindPoint, nil
	case "id":
		return KindID, nil
	case "id_list":
		return KindIDList, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q: %w", s, ErrSchemaMismatch)
	}
}

// MarshalText implements encoding.TextMarshaler so persisted schemas name
// their kinds instead of relying on enum ordering.
func (k FieldKind) MarshalText() ([]byte, error) {
	switch k {
	case KindString, KindBool, KindPoint, KindID, KindIDList:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown field kind %d: %w", int(k), ErrSchemaMismatch)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FieldKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Field declares one named, typed slot in a schema.
type Field struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
}

// SchemaDef declares a record layout under a stable identifier. The
// identifier is the compatibility contract: any document that may hold
// records of a schema must be read with the same identifier and layout.
// Changing the layout means minting a new identifier.
type SchemaDef struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// Validate checks structural constraints on a schema definition.
func (d SchemaDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("schema id must not be empty: %w", ErrSchemaMismatch)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("schema %q declares no fields: %w", d.ID, ErrSchemaMismatch)
	}
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q has an unnamed field: %w", d.ID, ErrSchemaMismatch)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema %q declares field %q twice: %w", d.ID, f.Name, ErrSchemaMismatch)
		}
		seen[f.Name] = true
		switch f.Kind {
		case KindString, KindBool, KindPoint, KindID, KindIDList:
		default:
			return fmt.Errorf("schema %q field %q has unknown kind %d: %w", d.ID, f.Name, int(f.Kind), ErrSchemaMismatch)
		}
	}
	return nil
}

// Field returns the declaration of the named field.
func (d SchemaDef) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Equal reports whether two definitions describe the same layout: same
// identifier and the same fields in the same order.
func (d SchemaDef) Equal(other SchemaDef) bool {
	if d.ID != other.ID || len(d.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range d.Fields {
		if other.Fields[i] != f {
			return false
		}
	}
	return true
}

// Schema is an opaque handle to a defined schema, returned by
// RecordStore.DefineSchema. The zero value is not a valid handle.
type Schema struct {
	id string
}

// NewSchema wraps a schema identifier in a handle. Intended for RecordStore
// implementations; callers obtain handles from DefineSchema.
func NewSchema(id string) Schema {
	return Schema{id: id}
}

// ID returns the schema identifier the handle refers to.
func (s Schema) ID() string {
	return s.id
}

// IsZero reports whether the handle refers to no schema.
func (s Schema) IsZero() bool {
	return s.id == ""
}

// Record is one persisted instance of a schema. Accessors are typed per
// FieldKind; accessing a field that is undeclared or declared with a
// different kind fails with ErrSchemaMismatch. Any operation on a record
// that has been deleted fails with ErrRecordInvalid.
//
// Unset fields read as their kind's zero value.
type Record interface {
	// ID is the record's own identity, independent of any field values.
	ID() uuid.UUID

	GetString(ctx context.Context, field string) (string, error)
	SetString(ctx context.Context, field string, v string) error

	GetBool(ctx context.Context, field string) (bool, error)
	SetBool(ctx context.Context, field string, v bool) error

	GetPoint(ctx context.Context, field string) (Point, error)
	SetPoint(ctx context.Context, field string, v Point) error

	GetID(ctx context.Context, field string) (ElementID, error)
	SetID(ctx context.Context, field string, v ElementID) error

	GetIDList(ctx context.Context, field string) ([]ElementID, error)
	SetIDList(ctx context.Context, field string, v []ElementID) error
}

// RecordStore persists named, typed records grouped by schema.
//
// DefineSchema is idempotent: defining the same identifier with the same
// layout returns the existing schema, while a different layout fails with
// ErrSchemaMismatch.
//
// Set* calls persist before returning; there is no separate commit step.
// DeleteRecord invalidates the record value, and a second delete fails with
// ErrRecordInvalid.
type RecordStore interface {
	DefineSchema(ctx context.Context, def SchemaDef) (Schema, error)
	CreateRecord(ctx context.Context, schema Schema) (Record, error)
	ListRecords(ctx context.Context, schema Schema) ([]Record, error)
	DeleteRecord(ctx context.Context, rec Record) error
}
