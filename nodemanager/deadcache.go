package nodemanager

import (
	"context"

	"github.com/vitsai/ray/internal/heap"
)

// deadOrderItem is one entry on the Dead-Node Order List: just enough to
// order by death time and to identify the row to evict.
type deadOrderItem struct {
	id        NodeID
	endTimeMs int64
}

// deadNodeCache bounds how many dead records are kept resident in memory,
// evicting the oldest death first once the configured capacity is exceeded.
// Eviction drops the in-memory copy and submits a delete of the
// corresponding durable row, the two always done together; once that delete
// succeeds, GetDeadNode's durable fallback no longer finds the node.
type deadNodeCache struct {
	maxCached int
	index     *nodeIndex
	table     NodeTable

	// order is a min-heap ordered by endTimeMs, giving O(log n) insertion
	// and O(log n) access to the oldest death.
	order *heap.Heap[deadOrderItem]
}

func newDeadNodeCache(maxCached int, index *nodeIndex, table NodeTable) *deadNodeCache {
	return &deadNodeCache{
		maxCached: maxCached,
		index:     index,
		table:     table,
		order: heap.New(func(a, b deadOrderItem) bool {
			return a.endTimeMs < b.endTimeMs
		}),
	}
}

// add inserts a freshly-dead node into the dead-set, evicting the oldest
// entry first if the cache is already at capacity. The capacity check must
// run before r itself is counted, so the caller passes in a record that has
// been removed from the live-set (nodeIndex.removeLive) but not yet
// inserted into the dead-set.
func (c *deadNodeCache) add(ctx context.Context, r *NodeRecord) {
	if c.maxCached > 0 && c.index.deadCount() >= c.maxCached {
		c.evictOldest(ctx)
	}

	c.index.insertDead(r)
	c.order.Push(deadOrderItem{id: r.NodeID, endTimeMs: r.EndTimeMs})
}

// evictOldest removes the front of the Dead-Node Order List from both the
// in-memory dead-set and the durable table. The durable delete is
// fire-and-forget: eviction is a memory-pressure relief valve, not a
// correctness-critical deletion, so a failed delete just leaves a stale row
// that a future GetDeadNode's synchronous fallback can still find.
func (c *deadNodeCache) evictOldest(ctx context.Context) {
	for c.order.Len() > 0 {
		victim := c.order.Pop()

		// The node may have already been removed from the dead-set by a
		// previous eviction race; skip stale order-list entries rather than
		// double-deleting.
		if c.index.getDead(victim.id) == nil {
			continue
		}

		c.index.evictDead(victim.id)
		_ = c.table.Delete(ctx, victim.id, nil)

		return
	}
}

// trimToCapacity evicts oldest dead entries in one bulk durable delete until
// the cache is back at or under capacity. Initialize seeds the dead-set
// directly from a durable scan, bypassing the one-at-a-time check add()
// does, so a restart after maxCached was lowered can seed more rows than
// the configured capacity allows; this is where that gets corrected.
func (c *deadNodeCache) trimToCapacity(ctx context.Context) {
	if c.maxCached <= 0 {
		return
	}

	var victims []NodeID

	for c.index.deadCount() > c.maxCached && c.order.Len() > 0 {
		item := c.order.Pop()
		if c.index.getDead(item.id) == nil {
			continue
		}
		c.index.evictDead(item.id)
		victims = append(victims, item.id)
	}

	if len(victims) > 0 {
		_ = c.table.BatchDelete(ctx, victims, nil)
	}
}

// len reports how many entries are tracked on the order list, for Stats.
func (c *deadNodeCache) len() int {
	return c.order.Len()
}
