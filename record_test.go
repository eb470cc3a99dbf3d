package regroup_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/regroup"
)

func TestFieldKind_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind regroup.FieldKind
		want string
	}{
		{regroup.KindString, "string"},
		{regroup.KindBool, "bool"},
		{regroup.KindPoint, "point"},
		{regroup.KindID, "id"},
		{regroup.KindIDList, "id_list"},
		{regroup.FieldKind(42), "FieldKind(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestParseFieldKind(t *testing.T) {
	t.Parallel()

	t.Run("round trips every kind", func(t *testing.T) {
		t.Parallel()
		kinds := []regroup.FieldKind{
			regroup.KindString,
			regroup.KindBool,
			regroup.KindPoint,
			regroup.KindID,
			regroup.KindIDList,
		}
		for _, k := range kinds {
			got, err := regroup.ParseFieldKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, got)
		}
	})

	t.Run("rejects an unknown name", func(t *testing.T) {
		t.Parallel()
		_, err := regroup.ParseFieldKind("float")
		assert.ErrorIs(t, err, regroup.ErrSchemaMismatch)
	})
}

func TestFieldKind_TextMarshaling(t *testing.T) {
	t.Parallel()

	t.Run("serializes by name in schema definitions", func(t *testing.T) {
		t.Parallel()
		def := regroup.SchemaDef{
			ID: "test.v1",
			Fields: []regroup.Field{
				{Name: "title", Kind: regroup.KindString},
				{Name: "tracked", Kind: regroup.KindIDList},
			},
		}
		data, err := json.Marshal(def)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"string"`)
		assert.Contains(t, string(data), `"id_list"`)

		var got regroup.SchemaDef
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, def.Equal(got))
	})

	t.Run("refuses to serialize an unknown kind", func(t *testing.T) {
		t.Parallel()
		_, err := regroup.FieldKind(42).MarshalText()
		assert.ErrorIs(t, err, regroup.ErrSchemaMismatch)
	})

	t.Run("refuses to deserialize an unknown name", func(t *testing.T) {
		t.Parallel()
		var k regroup.FieldKind
		err := k.UnmarshalText([]byte("float"))
		assert.ErrorIs(t, err, regroup.ErrSchemaMismatch)
	})
}

func TestSchemaDef_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		def     regroup.SchemaDef
		wantErr bool
	}{
		{
			name: "valid",
			def: regroup.SchemaDef{
				ID: "test.v1",
				Fields: []regroup.Field{
					{Name: "a", Kind: regroup.KindString},
					{Name: "b", Kind: regroup.KindPoint},
				},
			},
		},
		{
			name:    "empty id",
			def:     regroup.SchemaDef{Fields: []regroup.Field{{Name: "a", Kind: regroup.KindString}}},
			wantErr: true,
		},
		{
			name:    "no fields",
			def:     regroup.SchemaDef{ID: "test.v1"},
			wantErr: true,
		},
		{
			name: "unnamed field",
			def: regroup.SchemaDef{
				ID:     "test.v1",
				Fields: []regroup.Field{{Kind: regroup.KindString}},
			},
			wantErr: true,
		},
		{
			name: "duplicate field",
			def: regroup.SchemaDef{
				ID: "test.v1",
				Fields: []regroup.Field{
					{Name: "a", Kind: regroup.KindString},
					{Name: "a", Kind: regroup.KindBool},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			def: regroup.SchemaDef{
				ID:     "test.v1",
				Fields: []regroup.Field{{Name: "a", Kind: regroup.FieldKind(42)}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.def.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, regroup.ErrSchemaMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchemaDef_Equal(t *testing.T) {
	t.Parallel()
	base := regroup.SchemaDef{
		ID: "test.v1",
		Fields: []regroup.Field{
			{Name: "a", Kind: regroup.KindString},
			{Name: "b", Kind: regroup.KindBool},
		},
	}
	tests := []struct {
		name  string
		other regroup.SchemaDef
		want  bool
	}{
		{"same layout", base, true},
		{
			name: "different id",
			other: regroup.SchemaDef{
				ID:     "test.v2",
				Fields: base.Fields,
			},
		},
		{
			name: "reordered fields",
			other: regroup.SchemaDef{
				ID: "test.v1",
				Fields: []regroup.Field{
					{Name: "b", Kind: regroup.KindBool},
					{Name: "a", Kind: regroup.KindString},
				},
			},
		},
		{
			name: "different kind",
			other: regroup.SchemaDef{
				ID: "test.v1",
				Fields: []regroup.Field{
					{Name: "a", Kind: regroup.KindString},
					{Name: "b", Kind: regroup.KindPoint},
				},
			},
		},
		{
			name: "extra field",
			other: regroup.SchemaDef{
				ID: "test.v1",
				Fields: append([]regroup.Field{
					{Name: "a", Kind: regroup.KindString},
					{Name: "b", Kind: regroup.KindBool},
				}, regroup.Field{Name: "c", Kind: regroup.KindID}),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, base.Equal(tt.other))
		})
	}
}

func TestSchemaDef_Field(t *testing.T) {
	t.Parallel()
	def := regroup.SchemaDef{
		ID:     "test.v1",
		Fields: []regroup.Field{{Name: "a", Kind: regroup.KindPoint}},
	}

	f, ok := def.Field("a")
	require.True(t, ok)
	assert.Equal(t, regroup.KindPoint, f.Kind)

	_, ok = def.Field("missing")
	assert.False(t, ok)
}

func TestSchema_Handle(t *testing.T) {
	t.Parallel()

	s := regroup.NewSchema("test.v1")
	assert.Equal(t, "test.v1", s.ID())
	assert.False(t, s.IsZero())
	assert.True(t, regroup.Schema{}.IsZero())
}

// TestSessionSchema pins the persisted session layout. Documents saved with
// open sessions depend on this exact shape; changing it requires a new
// schema identifier, not an edit here.
func TestSessionSchema(t *testing.T) {
	t.Parallel()

	def := regroup.SessionSchema()
	require.NoError(t, def.Validate())
	assert.Equal(t, "regroup.session.v1", def.ID)
	assert.Equal(t, regroup.SessionSchemaID, def.ID)

	want := []regroup.Field{
		{Name: "group_type", Kind: regroup.KindString},
		{Name: "pinned", Kind: regroup.KindBool},
		{Name: "anchor", Kind: regroup.KindPoint},
		{Name: "source_instance", Kind: regroup.KindID},
		{Name: "members", Kind: regroup.KindIDList},
	}
	assert.Equal(t, want, def.Fields)
}
