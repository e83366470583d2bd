package nodemanager

import (
	"sync"

	"github.com/vitsai/ray/internal/generic"
)

// nodeIndex is the Node Index: the live-set, the dead-set, and the Address
// Bimap that lets CheckAlive resolve an "ip:port" string back to a live
// node-id without a linear scan. The Transition Engine serializes its
// own transitions, so nothing here needs to be reentrant against itself, but
// read accessors (CheckAlive, GetAllNodeInfo) may be invoked from RPC handler
// goroutines concurrently with a transition in flight, so all access is
// still guarded by mut.
type nodeIndex struct {
	mut sync.RWMutex

	live map[NodeID]*NodeRecord
	dead map[NodeID]*NodeRecord

	// addrToID and idToAddr together form the Address Bimap: every live
	// node has exactly one entry in each, and the two agree with each
	// other. Dead nodes are removed from both.
	addrToID map[string]NodeID
	idToAddr map[NodeID]string

	headNodeID NodeID
}

func newNodeIndex() *nodeIndex {
	return &nodeIndex{
		live:     make(map[NodeID]*NodeRecord),
		dead:     make(map[NodeID]*NodeRecord),
		addrToID: make(map[string]NodeID),
		idToAddr: make(map[NodeID]string),
	}
}

// addLive inserts a newly-registered node into the live-set and the Address
// Bimap. The caller is responsible for having already displaced any prior
// head node (registerNodeLocked does this via onNodeFailureLocked) before
// calling this.
func (idx *nodeIndex) addLive(r *NodeRecord) {
	idx.mut.Lock()
	defer idx.mut.Unlock()

	addr := r.Address()

	idx.live[r.NodeID] = r
	idx.addrToID[addr] = r.NodeID
	idx.idToAddr[r.NodeID] = addr

	if r.IsHeadNode {
		idx.headNodeID = r.NodeID
	}
}

// removeLive removes id from the live-set and the Address Bimap. It does
// NOT insert the record into the dead-set: that step is gated by the
// Dead-Node Cache's capacity check (see deadNodeCache.add) and must happen
// after the eviction decision, not before it. Returns the record as it
// stood in the live-set, or nil if id was not live.
func (idx *nodeIndex) removeLive(id NodeID) *NodeRecord {
	idx.mut.Lock()
	defer idx.mut.Unlock()

	r, ok := idx.live[id]
	if !ok {
		return nil
	}

	delete(idx.live, id)
	delete(idx.addrToID, idx.idToAddr[id])
	delete(idx.idToAddr, id)

	return r
}

// insertDead inserts r into the dead-set. Called only by deadNodeCache.add,
// after its capacity/eviction check has already run.
func (idx *nodeIndex) insertDead(r *NodeRecord) {
	idx.mut.Lock()
	defer idx.mut.Unlock()

	idx.dead[r.NodeID] = r
}

// evictDead drops id from the dead-set entirely, used by the Dead-Node Cache
// once a victim's durable row has been deleted.
func (idx *nodeIndex) evictDead(id NodeID) {
	idx.mut.Lock()
	defer idx.mut.Unlock()

	delete(idx.dead, id)
}

func (idx *nodeIndex) getLive(id NodeID) *NodeRecord {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	return idx.live[id]
}

func (idx *nodeIndex) getDead(id NodeID) *NodeRecord {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	return idx.dead[id]
}

// currentHeadNodeID returns the node-id of the currently live head node, if
// any. The bool is false when no live node claims head-node status.
func (idx *nodeIndex) currentHeadNodeID() (NodeID, bool) {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	_, ok := idx.live[idx.headNodeID]
	return idx.headNodeID, ok
}

// seedDead inserts r directly into the dead-set without touching the
// live-set or the Address Bimap, used by Initialize to replay durable state.
func (idx *nodeIndex) seedDead(r *NodeRecord) {
	idx.mut.Lock()
	defer idx.mut.Unlock()

	idx.dead[r.NodeID] = r
}

// deadByAddress scans the dead-set for a record whose address matches addr.
// The Address Bimap only covers the live-set, so resolving a dead node by
// address has no faster path than this bounded scan; the dead-set is capped
// by MaxDeadNodesCached, so the scan stays small.
func (idx *nodeIndex) deadByAddress(addr string) (*NodeRecord, bool) {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	for _, r := range idx.dead {
		if r.Address() == addr {
			return r, true
		}
	}

	return nil, false
}

// idByAddress resolves an "ip:port" string to a node-id via the Address
// Bimap. Used by CheckAlive; IsNodePreempted resolves dead addresses through
// deadByAddress instead.
func (idx *nodeIndex) idByAddress(addr string) (NodeID, bool) {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	id, ok := idx.addrToID[addr]
	return id, ok
}

// allLive returns a snapshot slice of every live record, cloned so the
// caller cannot mutate index state.
func (idx *nodeIndex) allLive() []*NodeRecord {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	raw := generic.MapValues(idx.live)
	out := make([]*NodeRecord, len(raw))
	for i, r := range raw {
		out[i] = r.Clone()
	}

	return out
}

// allDead returns a snapshot slice of every dead record currently cached in
// memory (the Dead-Node Cache, not the full durable table), cloned.
func (idx *nodeIndex) allDead() []*NodeRecord {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	raw := generic.MapValues(idx.dead)
	out := make([]*NodeRecord, len(raw))
	for i, r := range raw {
		out[i] = r.Clone()
	}

	return out
}

func (idx *nodeIndex) liveCount() int {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	return len(idx.live)
}

func (idx *nodeIndex) deadCount() int {
	idx.mut.RLock()
	defer idx.mut.RUnlock()

	return len(idx.dead)
}
