package regroup

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ElementID identifies an element in a document: a loose element, a group
// instance, or a group type definition. The zero value means "no element".
type ElementID [16]byte

// NewElementID returns a fresh, globally unique id.
func NewElementID() ElementID {
	return ElementID(ulid.Make())
}

// ParseElementID parses the canonical string form produced by String.
func ParseElementID(s string) (ElementID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return ElementID{}, fmt.Errorf("parse element id %q: %w", s, err)
	}
	return ElementID(u), nil
}

// IsZero reports whether id is the zero id.
func (id ElementID) IsZero() bool {
	return id == ElementID{}
}

func (id ElementID) String() string {
	return ulid.ULID(id).String()
}

// MarshalText implements encoding.TextMarshaler so ids serialize to their
// canonical string form, including when used as JSON object keys.
func (id ElementID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ElementID) UnmarshalText(text []byte) error {
	parsed, err := ParseElementID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Point is a location in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the offset that translates q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}
