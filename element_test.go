package regroup_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/regroup"
)

func TestNewElementID(t *testing.T) {
	t.Parallel()

	a := regroup.NewElementID()
	b := regroup.NewElementID()
	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
}

func TestParseElementID(t *testing.T) {
	t.Parallel()

	t.Run("round trips the canonical form", func(t *testing.T) {
		t.Parallel()
		id := regroup.NewElementID()
		got, err := regroup.ParseElementID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()
		_, err := regroup.ParseElementID("not-an-id")
		assert.Error(t, err)
	})
}

func TestElementID_IsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, regroup.ElementID{}.IsZero())
	assert.False(t, regroup.NewElementID().IsZero())
}

func TestElementID_TextMarshaling(t *testing.T) {
	t.Parallel()

	t.Run("serializes to the canonical string", func(t *testing.T) {
		t.Parallel()
		id := regroup.NewElementID()
		data, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, `"`+id.String()+`"`, string(data))

		var got regroup.ElementID
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, id, got)
	})

	t.Run("works as a JSON object key", func(t *testing.T) {
		t.Parallel()
		id := regroup.NewElementID()
		data, err := json.Marshal(map[regroup.ElementID]string{id: "loose"})
		require.NoError(t, err)

		var got map[regroup.ElementID]string
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "loose", got[id])
	})
}

func TestPoint(t *testing.T) {
	t.Parallel()

	t.Run("Add", func(t *testing.T) {
		t.Parallel()
		p := regroup.Point{X: 1, Y: 2, Z: 3}
		q := regroup.Point{X: 10, Y: -2, Z: 0.5}
		assert.Equal(t, regroup.Point{X: 11, Y: 0, Z: 3.5}, p.Add(q))
	})

	t.Run("Sub", func(t *testing.T) {
		t.Parallel()
		p := regroup.Point{X: 11, Y: 0, Z: 3.5}
		q := regroup.Point{X: 10, Y: -2, Z: 0.5}
		assert.Equal(t, regroup.Point{X: 1, Y: 2, Z: 3}, p.Sub(q))
	})

	t.Run("Sub inverts Add", func(t *testing.T) {
		t.Parallel()
		p := regroup.Point{X: 4, Y: 5, Z: 6}
		offset := regroup.Point{X: -1, Y: 0, Z: 2}
		assert.Equal(t, p, p.Add(offset).Sub(offset))
	})
}
