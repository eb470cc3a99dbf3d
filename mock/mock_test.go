package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTx(t *testing.T) {
	t.Parallel()
	t.Run("delegates to function fields", func(t *testing.T) {
		t.Parallel()
		id := regroup.NewElementID()
		want := regroup.GroupInfo{Instance: id, TypeName: "Group 1"}
		tx := mock.Tx{
			ElementExistsFn: func(got regroup.ElementID) bool {
				assert.Equal(t, id, got)
				return true
			},
			GroupInfoFn: func(got regroup.ElementID) (regroup.GroupInfo, error) {
				assert.Equal(t, id, got)
				return want, nil
			},
		}
		assert.True(t, tx.ElementExists(id))
		got, err := tx.GroupInfo(id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("dissolve error")
		tx := mock.Tx{
			DissolveGroupFn: func(regroup.ElementID) ([]regroup.ElementID, error) {
				return nil, wantErr
			},
		}
		_, err := tx.DissolveGroup(regroup.NewElementID())
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when a function field is not set", func(t *testing.T) {
		t.Parallel()
		tx := mock.Tx{}
		assert.Panics(t, func() {
			_ = tx.ElementExists(regroup.NewElementID())
		})
		assert.Panics(t, func() {
			_, _ = tx.CreateGroup(nil)
		})
		assert.Panics(t, func() {
			_ = tx.Records()
		})
	})
}

func TestDocument(t *testing.T) {
	t.Parallel()
	t.Run("delegates to UpdateFn with the supplied tx", func(t *testing.T) {
		t.Parallel()
		tx := &mock.Tx{}
		doc := mock.Document{
			UpdateFn: func(ctx context.Context, fn func(regroup.Tx) error) error {
				return fn(tx)
			},
		}
		var got regroup.Tx
		err := doc.Update(context.Background(), func(tx regroup.Tx) error {
			got = tx
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, tx, got)
	})

	t.Run("propagates the fn error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("view error")
		doc := mock.Document{
			ViewFn: func(ctx context.Context, fn func(regroup.Tx) error) error {
				return fn(nil)
			},
		}
		err := doc.View(context.Background(), func(regroup.Tx) error {
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestRecordStore(t *testing.T) {
	t.Parallel()
	t.Run("delegates to DefineSchemaFn", func(t *testing.T) {
		t.Parallel()
		want := regroup.NewSchema("mock.v1")
		rs := mock.RecordStore{
			DefineSchemaFn: func(ctx context.Context, def regroup.SchemaDef) (regroup.Schema, error) {
				assert.Equal(t, "mock.v1", def.ID)
				return want, nil
			},
		}
		got, err := rs.DefineSchema(context.Background(), regroup.SchemaDef{ID: "mock.v1"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("panics when DeleteRecordFn not set", func(t *testing.T) {
		t.Parallel()
		rs := mock.RecordStore{}
		assert.Panics(t, func() {
			_ = rs.DeleteRecord(context.Background(), &mock.Record{})
		})
	})
}

func TestRecord(t *testing.T) {
	t.Parallel()
	t.Run("delegates typed accessors", func(t *testing.T) {
		t.Parallel()
		fields := map[string]string{}
		rec := mock.Record{
			GetStringFn: func(ctx context.Context, field string) (string, error) {
				return fields[field], nil
			},
			SetStringFn: func(ctx context.Context, field string, v string) error {
				fields[field] = v
				return nil
			},
		}
		require.NoError(t, rec.SetString(context.Background(), "group_type", "Desk Pod"))
		got, err := rec.GetString(context.Background(), "group_type")
		require.NoError(t, err)
		assert.Equal(t, "Desk Pod", got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		rec := mock.Record{
			GetIDListFn: func(ctx context.Context, field string) ([]regroup.ElementID, error) {
				return nil, regroup.ErrRecordInvalid
			},
		}
		_, err := rec.GetIDList(context.Background(), "members")
		assert.ErrorIs(t, err, regroup.ErrRecordInvalid)
	})
}
