// Package memdoc is an in-memory element document implementing the host
// contract consumed by edit sessions: elements, group instances and
// types, an embedded record store, and atomic units of work with JSON
// persistence.
//
// Update runs its function against a private clone of the document state
// and swaps the clone in only when the function returns nil, so a failed
// unit of work leaves no trace. Within one unit of work the instance
// enumeration of a group type keeps reporting instances dissolved earlier
// in that same unit, reproducing the host inconsistency edit sessions
// must tolerate (see regroup.Tx).
package memdoc

import (
	"context"
	"sync"

	"github.com/fwojciec/regroup"
)

// Interface compliance check.
var _ regroup.Document = (*Document)(nil)

// Document is an in-memory element document. Use New to create an empty
// one or Open to load a saved one. Methods are safe for concurrent use.
type Document struct {
	mu      sync.RWMutex
	st      *state
	records regroup.RecordStore // external registry; nil means embedded
}

// Option configures a Document.
type Option func(*Document)

// WithRecordStore substitutes an external record store (such as a Redis
// registry) for the document-embedded one. External stores persist
// independently of the document file: their writes are not part of the
// document's unit of work and are not rolled back when Update fails.
func WithRecordStore(rs regroup.RecordStore) Option {
	return func(d *Document) {
		d.records = rs
	}
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{st: newState()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Edit runs fn inside one atomic unit of work against the concrete
// transaction type, which adds authoring methods on top of regroup.Tx.
// Mutations apply to a private clone and swap in only when fn returns
// nil; an error from fn discards every mutation.
func (d *Document) Edit(_ context.Context, fn func(*Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	tx := newTx(d, d.st.clone())
	if err := fn(tx); err != nil {
		return err
	}
	d.st = tx.st
	return nil
}

// Update implements regroup.Document by adapting Edit to the host
// contract.
func (d *Document) Update(ctx context.Context, fn func(regroup.Tx) error) error {
	return d.Edit(ctx, func(tx *Tx) error { return fn(tx) })
}

// Read runs fn against a snapshot with the concrete transaction type.
// Mutations are always discarded.
func (d *Document) Read(_ context.Context, fn func(*Tx) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(newTx(d, d.st.clone()))
}

// View implements regroup.Document.
func (d *Document) View(ctx context.Context, fn func(regroup.Tx) error) error {
	return d.Read(ctx, func(tx *Tx) error { return fn(tx) })
}

func newTx(d *Document, st *state) *Tx {
	return &Tx{
		doc:    d,
		st:     st,
		ghosts: make(map[regroup.ElementID]regroup.ElementID),
	}
}
