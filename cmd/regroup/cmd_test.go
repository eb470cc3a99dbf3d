package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/regroup"
	"github.com/fwojciec/regroup/memdoc"
)

func init() {
	_ = flag.Set("logtostderr", "true")
}

func TestParsePoint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    regroup.Point
		wantErr bool
	}{
		{name: "two coordinates", in: "1,2", want: regroup.Point{X: 1, Y: 2}},
		{name: "three coordinates", in: "1,2,3", want: regroup.Point{X: 1, Y: 2, Z: 3}},
		{name: "whitespace and signs", in: " 0.5 , -2 ", want: regroup.Point{X: 0.5, Y: -2}},
		{name: "one coordinate", in: "1", wantErr: true},
		{name: "four coordinates", in: "1,2,3,4", wantErr: true},
		{name: "not a number", in: "a,b", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parsePoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	a, b := regroup.NewElementID(), regroup.NewElementID()
	ids, err := parseIDs([]string{a.String(), b.String()})
	require.NoError(t, err)
	assert.Equal(t, []regroup.ElementID{a, b}, ids)

	_, err = parseIDs([]string{a.String(), "nope"})
	assert.Error(t, err)
}

func TestResolveInstance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc := memdoc.New()
	var instance regroup.ElementID
	require.NoError(t, doc.Edit(ctx, func(tx *memdoc.Tx) error {
		info, err := tx.CreateGroup([]regroup.ElementID{tx.CreateElement(regroup.Point{X: 1})})
		if err != nil {
			return err
		}
		instance = info.Instance
		return tx.RenameGroupType(info.Type, "Desk Pod")
	}))

	t.Run("accepts an instance id", func(t *testing.T) {
		require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
			got, err := resolveInstance(tx, instance.String())
			require.NoError(t, err)
			assert.Equal(t, instance, got)
			return nil
		}))
	})

	t.Run("resolves a type name with one instance", func(t *testing.T) {
		require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
			got, err := resolveInstance(tx, "Desk Pod")
			require.NoError(t, err)
			assert.Equal(t, instance, got)
			return nil
		}))
	})

	t.Run("fails on an unknown name", func(t *testing.T) {
		require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
			_, err := resolveInstance(tx, "Nowhere")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no group type")
			return nil
		}))
	})

	t.Run("fails when the name is ambiguous", func(t *testing.T) {
		require.NoError(t, doc.Edit(ctx, func(tx *memdoc.Tx) error {
			typeID, ok := tx.GroupTypeByName("Desk Pod")
			require.True(t, ok)
			_, err := tx.PlaceInstance(typeID, regroup.Point{X: 10})
			return err
		}))
		require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
			_, err := resolveInstance(tx, "Desk Pod")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "2 instances")
			return nil
		}))
	})
}

func TestResolveSessionName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	doc := memdoc.New()

	require.NoError(t, doc.View(ctx, func(tx regroup.Tx) error {
		name, err := resolveSessionName(ctx, tx, "Desk Pod")
		require.NoError(t, err)
		assert.Equal(t, "Desk Pod", name, "an explicit name passes through")

		_, err = resolveSessionName(ctx, tx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no open sessions")
		return nil
	}))

	startNamed := func(name string) {
		require.NoError(t, doc.Edit(ctx, func(tx *memdoc.Tx) error {
			info, err := tx.CreateGroup([]regroup.ElementID{tx.CreateElement(regroup.Point{})})
			if err != nil {
				return err
			}
			if err := tx.RenameGroupType(info.Type, name); err != nil {
				return err
			}
			sess, err := regroup.NewSession(ctx, tx, info.Instance)
			if err != nil {
				return err
			}
			return sess.StartEditing(ctx, tx)
		}))
	}

	startNamed("Aisle")
	require.NoError(t, doc.View(ctx, func(tx regroup.Tx) error {
		name, err := resolveSessionName(ctx, tx, "")
		require.NoError(t, err)
		assert.Equal(t, "Aisle", name, "a single open session is unambiguous")
		return nil
	}))

	startNamed("Desk Pod")
	require.NoError(t, doc.View(ctx, func(tx regroup.Tx) error {
		_, err := resolveSessionName(ctx, tx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pass --session")
		return nil
	}))
}

func TestSweepSessions(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	busy := memdoc.New()
	require.NoError(t, busy.Edit(ctx, func(tx *memdoc.Tx) error {
		info, err := tx.CreateGroup([]regroup.ElementID{tx.CreateElement(regroup.Point{X: 1})})
		if err != nil {
			return err
		}
		sess, err := regroup.NewSession(ctx, tx, info.Instance)
		if err != nil {
			return err
		}
		return sess.StartEditing(ctx, tx)
	}))
	require.NoError(t, memdoc.Save(filepath.Join(dir, "plans", "busy.json"), busy))
	require.NoError(t, memdoc.Save(filepath.Join(dir, "plans", "idle.json"), memdoc.New()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plans", "junk.json"), []byte("{"), 0o600))

	t.Chdir(dir)

	hits, err := sweepSessions(ctx, "plans/**/*.json")
	require.NoError(t, err)
	require.Len(t, hits, 1, "idle and unreadable documents are skipped")
	assert.Equal(t, filepath.Join("plans", "busy.json"), hits[0].Doc)
	assert.Equal(t, "Group 1", hits[0].Name)

	_, err = sweepSessions(ctx, "plans/[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}

// TestCLIWorkflow drives the command tree end to end against a document
// file: author a group and a sibling, edit the member set across separate
// invocations, recompose, and purge a second session.
func TestCLIWorkflow(t *testing.T) {
	ctx := context.Background()
	docPath := filepath.Join(t.TempDir(), "plan.json")

	run := func(args ...string) error {
		rootCmd.SetArgs(append(args, "-d", docPath))
		return rootCmd.ExecuteContext(ctx)
	}

	require.NoError(t, run("init"))
	err := run("init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, run("element", "add", "--at", "0,0"))
	require.NoError(t, run("element", "add", "--at", "2,0"))
	require.NoError(t, run("element", "add", "--at", "4,0"))

	loose := looseElements(t, ctx, docPath)
	require.Len(t, loose, 3)
	byX := map[float64]regroup.ElementID{}
	for id, at := range loose {
		byX[at.X] = id
	}

	require.NoError(t, run("group", "create",
		byX[0].String(), byX[2].String(), byX[4].String(),
		"--name", "Desk Pod", "--pinned"))
	require.NoError(t, run("group", "place", "Desk Pod", "--at", "10,0"))

	err = run("start", "Desk Pod")
	require.Error(t, err, "two instances make the name ambiguous")
	assert.Contains(t, err.Error(), "2 instances")

	original := instanceAt(t, ctx, docPath, "Desk Pod", regroup.Point{X: 2})
	require.NoError(t, run("start", original.String()))
	assert.Equal(t, []string{"Desk Pod"}, docSessions(t, ctx, docPath))

	// A member at (2,3) moves the centroid of {(0,0) (4,0) (2,3)} to (2,1).
	require.NoError(t, run("element", "add", "--at", "2,3"))
	extra := looseElementAt(t, ctx, docPath, regroup.Point{X: 2, Y: 3})
	require.NoError(t, run("add", extra.String()))
	require.NoError(t, run("remove", byX[2].String()))

	require.NoError(t, run("finish", "Desk Pod"))
	assert.Empty(t, docSessions(t, ctx, docPath))

	recomposed := instanceAt(t, ctx, docPath, "Desk Pod", regroup.Point{X: 2, Y: 1})
	sibling := instanceAt(t, ctx, docPath, "Desk Pod", regroup.Point{X: 10, Y: 1})
	doc, err := memdoc.Open(docPath)
	require.NoError(t, err)
	require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
		info, err := tx.GroupInfo(recomposed)
		require.NoError(t, err)
		assert.Equal(t, []regroup.ElementID{byX[0], byX[4], extra}, info.Members)
		assert.True(t, info.Pinned)

		sib, err := tx.GroupInfo(sibling)
		require.NoError(t, err)
		assert.Equal(t, info.Type, sib.Type, "the sibling was migrated")
		assert.True(t, tx.ElementExists(byX[2]), "the removed member stays loose")
		return nil
	}))

	require.NoError(t, run("start", recomposed.String()))
	require.NoError(t, run("purge", "Desk Pod"))
	assert.Empty(t, docSessions(t, ctx, docPath))

	reloaded, err := memdoc.Open(docPath)
	require.NoError(t, err)
	require.NoError(t, reloaded.Read(ctx, func(tx *memdoc.Tx) error {
		typeID, ok := tx.GroupTypeByName("Desk Pod")
		require.True(t, ok, "the sibling keeps the type alive")
		assert.Len(t, tx.GroupInstances(typeID), 1)
		return nil
	}))
}

// looseElements maps each loose element to its location.
func looseElements(t *testing.T, ctx context.Context, path string) map[regroup.ElementID]regroup.Point {
	t.Helper()
	doc, err := memdoc.Open(path)
	require.NoError(t, err)
	out := map[regroup.ElementID]regroup.Point{}
	require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
		for _, el := range tx.Elements() {
			if !el.Group && el.MemberOf.IsZero() {
				out[el.ID] = el.Location
			}
		}
		return nil
	}))
	return out
}

// looseElementAt returns the loose element at the given location.
func looseElementAt(t *testing.T, ctx context.Context, path string, at regroup.Point) regroup.ElementID {
	t.Helper()
	for id, loc := range looseElements(t, ctx, path) {
		if loc == at {
			return id
		}
	}
	t.Fatalf("no loose element at %v", at)
	return regroup.ElementID{}
}

// instanceAt returns the instance of the named type anchored at the given
// location.
func instanceAt(t *testing.T, ctx context.Context, path, typeName string, anchor regroup.Point) regroup.ElementID {
	t.Helper()
	doc, err := memdoc.Open(path)
	require.NoError(t, err)
	var found regroup.ElementID
	require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
		typeID, ok := tx.GroupTypeByName(typeName)
		require.True(t, ok, "group type %q", typeName)
		for _, inst := range tx.GroupInstances(typeID) {
			info, err := tx.GroupInfo(inst)
			require.NoError(t, err)
			if info.Anchor == anchor {
				found = inst
				return nil
			}
		}
		t.Fatalf("no instance of %q anchored at %v", typeName, anchor)
		return nil
	}))
	return found
}

func docSessions(t *testing.T, ctx context.Context, path string) []string {
	t.Helper()
	doc, err := memdoc.Open(path)
	require.NoError(t, err)
	var names []string
	require.NoError(t, doc.Read(ctx, func(tx *memdoc.Tx) error {
		var err error
		names, err = regroup.ActiveSessionNames(ctx, tx.Records())
		return err
	}))
	return names
}
