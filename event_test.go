package regroup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/regroup"
)

func TestSessionStarted_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e regroup.Event = regroup.SessionStarted{
		TypeName: "Desk Pod",
		Members:  []regroup.ElementID{regroup.NewElementID()},
	}
	assert.NotNil(t, e)
}

func TestElementsAdded_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e regroup.Event = regroup.ElementsAdded{
		TypeName: "Desk Pod",
		IDs:      []regroup.ElementID{regroup.NewElementID()},
	}
	assert.NotNil(t, e)
}

func TestElementRemoved_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e regroup.Event = regroup.ElementRemoved{
		TypeName: "Desk Pod",
		ID:       regroup.NewElementID(),
	}
	assert.NotNil(t, e)
}

func TestSessionFinished_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e regroup.Event = regroup.SessionFinished{
		TypeName: "Desk Pod",
		Instance: regroup.NewElementID(),
		Siblings: 2,
	}
	assert.NotNil(t, e)
}

func TestSessionPurged_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e regroup.Event = regroup.SessionPurged{TypeName: "Desk Pod", TypeDeleted: true}
	assert.NotNil(t, e)
}

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []regroup.Event{
		regroup.SessionStarted{TypeName: "Desk Pod"},
		regroup.ElementsAdded{TypeName: "Desk Pod"},
		regroup.ElementRemoved{TypeName: "Desk Pod"},
		regroup.SessionFinished{TypeName: "Desk Pod"},
		regroup.SessionPurged{TypeName: "Desk Pod"},
	}
	assert.Len(t, events, 5, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case regroup.SessionStarted:
		case regroup.ElementsAdded:
		case regroup.ElementRemoved:
		case regroup.SessionFinished:
		case regroup.SessionPurged:
		default:
			t.Fatalf("unexpected event type: %T", e)
		}
	}
}
