// Package nodetable provides NodeTable / InternalConfigTable implementations
// for the node manager: an in-memory map for tests and single-process
// deployments, and an etcd-backed one for durable multi-restart deployments
// (see nodetable/etcd).
package nodetable

import (
	"context"
	"sync"

	"github.com/vitsai/ray/nodemanager"
)

// InMemory is a NodeTable backed by a guarded map. Every operation
// completes before returning; onDone is invoked inline.
type InMemory struct {
	mut  sync.RWMutex
	rows map[nodemanager.NodeID]*nodemanager.NodeRecord
}

// NewInMemory returns an empty InMemory table.
func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[nodemanager.NodeID]*nodemanager.NodeRecord)}
}

func (t *InMemory) Put(_ context.Context, id nodemanager.NodeID, r *nodemanager.NodeRecord, onDone func(error)) error {
	t.mut.Lock()
	t.rows[id] = r.Clone()
	t.mut.Unlock()

	if onDone != nil {
		onDone(nil)
	}
	return nil
}

func (t *InMemory) Get(_ context.Context, id nodemanager.NodeID, onDone func(*nodemanager.NodeRecord, error)) error {
	t.mut.RLock()
	r := t.rows[id]
	t.mut.RUnlock()

	onDone(r.Clone(), nil)
	return nil
}

func (t *InMemory) Delete(_ context.Context, id nodemanager.NodeID, onDone func(error)) error {
	t.mut.Lock()
	delete(t.rows, id)
	t.mut.Unlock()

	if onDone != nil {
		onDone(nil)
	}
	return nil
}

func (t *InMemory) BatchDelete(_ context.Context, ids []nodemanager.NodeID, onDone func(error)) error {
	t.mut.Lock()
	for _, id := range ids {
		delete(t.rows, id)
	}
	t.mut.Unlock()

	if onDone != nil {
		onDone(nil)
	}
	return nil
}

func (t *InMemory) Scan(context.Context) ([]*nodemanager.NodeRecord, error) {
	t.mut.RLock()
	defer t.mut.RUnlock()

	out := make([]*nodemanager.NodeRecord, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

// InMemoryConfigTable is an InternalConfigTable backed by a single guarded
// entry. It is a separate type from InMemory because NodeTable.Get and
// InternalConfigTable.Get have incompatible signatures and so cannot be
// satisfied by the same method set.
type InMemoryConfigTable struct {
	mut   sync.RWMutex
	entry *nodemanager.InternalConfigEntry
}

// NewInMemoryConfigTable returns a config table with no stored row.
func NewInMemoryConfigTable() *InMemoryConfigTable {
	return &InMemoryConfigTable{}
}

// Set seeds the well-known config row, used at startup by deployments that
// load their config from a file or flags rather than a previous write
// through this table.
func (t *InMemoryConfigTable) Set(entry *nodemanager.InternalConfigEntry) {
	t.mut.Lock()
	defer t.mut.Unlock()

	t.entry = entry
}

func (t *InMemoryConfigTable) Get(_ context.Context, onDone func(*nodemanager.InternalConfigEntry, error)) error {
	t.mut.RLock()
	entry := t.entry
	t.mut.RUnlock()

	onDone(entry, nil)
	return nil
}
