// Package mock provides test doubles for regroup interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/fwojciec/regroup"
)

// Interface compliance checks.
var (
	_ regroup.Tx       = (*Tx)(nil)
	_ regroup.Document = (*Document)(nil)
)

// Tx is a test double for regroup.Tx.
// Set the function fields for the methods you need.
type Tx struct {
	ElementExistsFn   func(id regroup.ElementID) bool
	ElementLocationFn func(id regroup.ElementID) (regroup.Point, error)
	TranslateFn       func(id regroup.ElementID, offset regroup.Point) error
	SetPinnedFn       func(id regroup.ElementID, pinned bool) error

	GroupInfoFn       func(id regroup.ElementID) (regroup.GroupInfo, error)
	CreateGroupFn     func(members []regroup.ElementID) (regroup.GroupInfo, error)
	DissolveGroupFn   func(id regroup.ElementID) ([]regroup.ElementID, error)
	SetGroupTypeFn    func(instance, groupType regroup.ElementID) error
	GroupTypeByNameFn func(name string) (regroup.ElementID, bool)
	GroupInstancesFn  func(groupType regroup.ElementID) []regroup.ElementID
	RenameTypeFn      func(groupType regroup.ElementID, name string) error
	DeleteTypeFn      func(groupType regroup.ElementID) error

	RecordsFn func() regroup.RecordStore
}

// ElementExists delegates to ElementExistsFn.
func (tx *Tx) ElementExists(id regroup.ElementID) bool {
	return tx.ElementExistsFn(id)
}

// ElementLocation delegates to ElementLocationFn.
func (tx *Tx) ElementLocation(id regroup.ElementID) (regroup.Point, error) {
	return tx.ElementLocationFn(id)
}

// TranslateElement delegates to TranslateFn.
func (tx *Tx) TranslateElement(id regroup.ElementID, offset regroup.Point) error {
	return tx.TranslateFn(id, offset)
}

// SetPinned delegates to SetPinnedFn.
func (tx *Tx) SetPinned(id regroup.ElementID, pinned bool) error {
	return tx.SetPinnedFn(id, pinned)
}

// GroupInfo delegates to GroupInfoFn.
func (tx *Tx) GroupInfo(id regroup.ElementID) (regroup.GroupInfo, error) {
	return tx.GroupInfoFn(id)
}

// CreateGroup delegates to CreateGroupFn.
func (tx *Tx) CreateGroup(members []regroup.ElementID) (regroup.GroupInfo, error) {
	return tx.CreateGroupFn(members)
}

// DissolveGroup delegates to DissolveGroupFn.
func (tx *Tx) DissolveGroup(id regroup.ElementID) ([]regroup.ElementID, error) {
	return tx.DissolveGroupFn(id)
}

// SetGroupType delegates to SetGroupTypeFn.
func (tx *Tx) SetGroupType(instance, groupType regroup.ElementID) error {
	return tx.SetGroupTypeFn(instance, groupType)
}

// GroupTypeByName delegates to GroupTypeByNameFn.
func (tx *Tx) GroupTypeByName(name string) (regroup.ElementID, bool) {
	return tx.GroupTypeByNameFn(name)
}

// GroupInstances delegates to GroupInstancesFn.
func (tx *Tx) GroupInstances(groupType regroup.ElementID) []regroup.ElementID {
	return tx.GroupInstancesFn(groupType)
}

// RenameGroupType delegates to RenameTypeFn.
func (tx *Tx) RenameGroupType(groupType regroup.ElementID, name string) error {
	return tx.RenameTypeFn(groupType, name)
}

// DeleteGroupType delegates to DeleteTypeFn.
func (tx *Tx) DeleteGroupType(groupType regroup.ElementID) error {
	return tx.DeleteTypeFn(groupType)
}

// Records delegates to RecordsFn.
func (tx *Tx) Records() regroup.RecordStore {
	return tx.RecordsFn()
}

// Document is a test double for regroup.Document.
// Set UpdateFn and ViewFn before use.
type Document struct {
	UpdateFn func(ctx context.Context, fn func(regroup.Tx) error) error
	ViewFn   func(ctx context.Context, fn func(regroup.Tx) error) error
}

// Update delegates to UpdateFn.
func (d *Document) Update(ctx context.Context, fn func(regroup.Tx) error) error {
	return d.UpdateFn(ctx, fn)
}

// View delegates to ViewFn.
func (d *Document) View(ctx context.Context, fn func(regroup.Tx) error) error {
	return d.ViewFn(ctx, fn)
}
