package nodemanager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Engine is the Transition Engine: the single coordinator for RegisterNode,
// DrainNode and OnNodeFailure. Every mutating operation runs under mu, so
// transitions serialize into one locked section; read-only queries go
// straight to the nodeIndex's own finer-grained lock and may run
// concurrently with a transition in flight.
//
// NodeTable.Put and InternalConfigTable.Get are invoked here as if
// asynchronous, exactly per their interface, but the engine blocks on a
// completion channel before proceeding: real backends (etcd, the in-memory
// table) complete those calls before returning, so in practice this never
// suspends across an actual goroutine boundary, but the code does not
// assume that.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	clusterID  ClusterID
	rayVersion string

	index     *nodeIndex
	deadCache *deadNodeCache
	listeners *listenerRegistry
}

// NewEngine constructs an Engine. clusterID and rayVersion are fixed for the
// lifetime of the process and returned verbatim by GetClusterId / CheckAlive.
func NewEngine(clusterID ClusterID, rayVersion string, cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = wallClock
	}
	if cfg.Logger == nil {
		cfg.Logger = kitlog.NewNopLogger()
	}

	idx := newNodeIndex()

	return &Engine{
		cfg:        cfg,
		clusterID:  clusterID,
		rayVersion: rayVersion,
		index:      idx,
		deadCache:  newDeadNodeCache(cfg.MaxDeadNodesCached, idx, cfg.NodeTable),
		listeners:  &listenerRegistry{},
	}
}

// AddNodeAddedListener registers l to fire on every live-set insertion,
// including those synthesized by Initialize. Must be called before
// Initialize runs; there is no deregistration.
func (e *Engine) AddNodeAddedListener(l NodeEventListener) {
	e.listeners.addNodeAddedListener(l)
}

// AddNodeRemovedListener registers l to fire on every live-set removal,
// whether by drain or by failure.
func (e *Engine) AddNodeRemovedListener(l NodeEventListener) {
	e.listeners.addNodeRemovedListener(l)
}

// GetClusterId returns the immutable binary cluster identifier.
func (e *Engine) GetClusterId() ClusterID {
	return e.clusterID
}

// RegisterNode applies a new node registration. Registering a node-id that
// is already live is an idempotent no-op: the existing record is retained.
func (e *Engine) RegisterNode(ctx context.Context, r *NodeRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.registerNodeLocked(ctx, r)
}

func (e *Engine) registerNodeLocked(ctx context.Context, r *NodeRecord) error {
	if e.index.getLive(r.NodeID) != nil {
		return nil
	}

	if r.IsHeadNode {
		if headID, ok := e.index.currentHeadNodeID(); ok && headID != r.NodeID {
			e.onNodeFailureLocked(ctx, headID, nil)
		}
	}

	r.State = StateAlive

	if err := e.tablePut(ctx, r); err != nil {
		e.fatal("durable write failed on node registration", err)
	}

	e.publishNodeInfo(ctx, r)
	e.index.addLive(r)
	e.listeners.fireAdded(r)

	return nil
}

// DrainNode applies an autoscaler-initiated graceful shutdown. Draining a
// node-id that is not live is an idempotent no-op: no publish, no raylet
// RPC, no state change.
func (e *Engine) DrainNode(ctx context.Context, id NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.index.removeLive(id)
	if r == nil {
		return nil
	}

	if r.DeathInfo.Reason != DeathReasonAutoscalerDrain {
		e.fatal("drain requested without AUTOSCALER_DRAIN death reason pre-populated", ErrMissingDrainReason)
	}

	r.State = StateDead
	r.EndTimeMs = e.cfg.Clock()

	e.deadCache.add(ctx, r)
	e.listeners.fireRemoved(r)

	if err := e.tablePut(ctx, r); err != nil {
		e.fatal("durable write failed on node drain", err)
	}

	e.shutdownRaylet(ctx, r)

	return nil
}

// SetDrainInfo stamps death-info on a live node ahead of an upcoming
// DrainNode call. Whatever upstream component decides a node should drain
// (and why) must call this before DrainNode runs.
func (e *Engine) SetDrainInfo(id NodeID, reason DeathReason, drainReason DrainReason) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.index.getLive(id)
	if r == nil {
		return ErrNoSuchNode
	}

	r.DeathInfo.Reason = reason
	r.DeathInfo.DrainReason = drainReason

	return nil
}

// OnNodeFailure applies a failure-detector-initiated removal. onDone may be
// nil; when non-nil it fires once the durable write has completed (it never
// fires with a non-nil error, since a failed write is fatal to the process).
func (e *Engine) OnNodeFailure(ctx context.Context, id NodeID, onDone func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onNodeFailureLocked(ctx, id, onDone)
}

func (e *Engine) onNodeFailureLocked(ctx context.Context, id NodeID, onDone func(error)) {
	r := e.index.removeLive(id)
	if r == nil {
		if onDone != nil {
			onDone(nil)
		}
		return
	}

	r.State = StateDead
	r.EndTimeMs = e.cfg.Clock()

	if r.DeathInfo.Reason == DeathReasonUnspecified {
		r.DeathInfo.Reason = DeathReasonUnexpectedTermination
	}

	e.publishErrorEvent(ctx, r)
	e.deadCache.add(ctx, r)
	e.listeners.fireRemoved(r)

	if err := e.tablePut(ctx, r); err != nil {
		e.fatal("durable write failed on node failure", err)
	}

	if onDone != nil {
		onDone(nil)
	}

	e.publishNodeInfoDelta(ctx, r)
}

// IsNodePreempted reports whether address names a node currently in the
// dead-set whose death was an autoscaler drain for preemption. The bounded
// in-memory dead-set is checked first; if address was evicted from it before
// the caller asked, this falls back to a durable table scan to resolve the
// node-id, then GetDeadNode for the authoritative record, mirroring the
// synchronous fallback GetDeadNode documents.
func (e *Engine) IsNodePreempted(ctx context.Context, address string) bool {
	if r, ok := e.index.deadByAddress(address); ok {
		return isPreemptionDrain(r)
	}

	id, ok := e.durableDeadIDByAddress(ctx, address)
	if !ok {
		return false
	}

	r, err := e.GetDeadNode(ctx, id)
	if err != nil || r == nil {
		return false
	}

	return isPreemptionDrain(r)
}

func isPreemptionDrain(r *NodeRecord) bool {
	return r.DeathInfo.Reason == DeathReasonAutoscalerDrain &&
		r.DeathInfo.DrainReason == DrainReasonPreemption
}

// durableDeadIDByAddress scans the full durable table for a dead row whose
// address matches. There is no durable address index, so this is the only
// way to resolve an address that has already aged out of the in-memory
// dead-set. It runs whenever the in-memory dead-set has no match for the
// address, including for addresses that were never registered.
func (e *Engine) durableDeadIDByAddress(ctx context.Context, address string) (NodeID, bool) {
	records, err := e.cfg.NodeTable.Scan(ctx)
	if err != nil {
		return "", false
	}

	for _, r := range records {
		if r.State == StateDead && r.Address() == address {
			return r.NodeID, true
		}
	}

	return "", false
}

// CheckAlive reports, positionally for each address, whether it names a
// currently-live node and, if not, whether that address's last known
// occupant died by preemption. It also returns the fixed ray-version string.
func (e *Engine) CheckAlive(ctx context.Context, addresses []string) (alive, preempted []bool, rayVersion string) {
	alive = make([]bool, len(addresses))
	preempted = make([]bool, len(addresses))

	for i, addr := range addresses {
		_, isAlive := e.index.idByAddress(addr)
		alive[i] = isAlive

		if !isAlive {
			preempted[i] = e.IsNodePreempted(ctx, addr)
		}
	}

	return alive, preempted, e.rayVersion
}

// GetAllNodeInfo returns a snapshot of the live-set followed by the dead-set.
// Order within each half is unspecified.
func (e *Engine) GetAllNodeInfo() []*NodeRecord {
	out := e.index.allLive()
	out = append(out, e.index.allDead()...)
	return out
}

// GetAliveNode returns the live record for id, if any.
func (e *Engine) GetAliveNode(id NodeID) (*NodeRecord, bool) {
	r := e.index.getLive(id)
	if r == nil {
		return nil, false
	}
	return r.Clone(), true
}

// GetDeadNode returns the dead record for id. If id is not in the cached
// dead-set, it falls back to a synchronous durable fetch; this is the
// only blocking query this package exposes, and a candidate to eliminate if
// the durable store ever needs an async-only access path. IsNodePreempted
// calls this once it has resolved an evicted dead node's id via a durable
// scan.
func (e *Engine) GetDeadNode(ctx context.Context, id NodeID) (*NodeRecord, error) {
	if r := e.index.getDead(id); r != nil {
		return r.Clone(), nil
	}

	var (
		rec    *NodeRecord
		getErr error
	)

	done := make(chan struct{})
	if err := e.cfg.NodeTable.Get(ctx, id, func(r *NodeRecord, err error) {
		rec, getErr = r, err
		close(done)
	}); err != nil {
		return nil, err
	}
	<-done

	return rec, getErr
}

// GetInternalConfig reads the well-known NIL row from InternalConfigTable.
// A missing row returns an empty string with no error.
func (e *Engine) GetInternalConfig(ctx context.Context) (string, error) {
	var (
		config string
		getErr error
	)

	done := make(chan struct{})
	if err := e.cfg.InternalConfigTable.Get(ctx, func(entry *InternalConfigEntry, err error) {
		if entry != nil {
			config = entry.Config
		}
		getErr = err
		close(done)
	}); err != nil {
		return "", err
	}
	<-done

	return config, getErr
}

// Initialize loads every record from NodeTable, partitions it into the
// live-set and dead-set, rebuilds the Dead-Node Order List sorted by
// end-time-ms ascending, fires added-listeners for each recovered live node,
// and sends a resubscription ping to each live node's raylet.
//
// Only nodes recorded as live in durable storage are pinged, and they are
// asked to resubscribe rather than to register again: a raylet that never
// registered would crash if asked to resubscribe.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.cfg.NodeTable.Scan(ctx)
	if err != nil {
		return fmt.Errorf("nodemanager: scan node table: %w", err)
	}

	var deadRecords []*NodeRecord

	for _, r := range records {
		switch r.State {
		case StateAlive:
			e.index.addLive(r)
			e.listeners.fireAdded(r)
		case StateDead:
			e.index.seedDead(r)
			deadRecords = append(deadRecords, r)
		}
	}

	sort.Slice(deadRecords, func(i, j int) bool {
		return deadRecords[i].EndTimeMs < deadRecords[j].EndTimeMs
	})

	e.deadCache.order.Reset()
	for _, r := range deadRecords {
		e.deadCache.order.Push(deadOrderItem{id: r.NodeID, endTimeMs: r.EndTimeMs})
	}
	e.deadCache.trimToCapacity(ctx)

	for _, r := range e.index.allLive() {
		e.notifyGCSRestart(ctx, r)
	}

	return nil
}

// tablePut writes r to the NodeTable and blocks until the write completes.
func (e *Engine) tablePut(ctx context.Context, r *NodeRecord) error {
	var putErr error

	done := make(chan struct{})
	if err := e.cfg.NodeTable.Put(ctx, r.NodeID, r.Clone(), func(err error) {
		putErr = err
		close(done)
	}); err != nil {
		return err
	}
	<-done

	return putErr
}

func (e *Engine) publishNodeInfo(ctx context.Context, r *NodeRecord) {
	if e.cfg.Publisher == nil {
		return
	}

	if err := e.cfg.Publisher.PublishNodeInfo(ctx, r.NodeID, r.Clone(), nil); err != nil {
		level.Error(e.cfg.Logger).Log("msg", "publish node info failed", "node_id", r.NodeID, "err", err)
	}
}

// publishNodeInfoDelta publishes only the fields that change on a
// live-to-dead transition, per the node-info delta contract.
func (e *Engine) publishNodeInfoDelta(ctx context.Context, r *NodeRecord) {
	e.publishNodeInfo(ctx, &NodeRecord{
		NodeID:    r.NodeID,
		State:     r.State,
		EndTimeMs: r.EndTimeMs,
		DeathInfo: r.DeathInfo,
	})
}

func (e *Engine) publishErrorEvent(ctx context.Context, r *NodeRecord) {
	if e.cfg.Publisher == nil {
		return
	}

	data := ErrorTableData{
		Type: "node_removed",
		Message: fmt.Sprintf(
			"the node with node id: %s and address: %s and node name: %s has been marked dead "+
				"because the detector has missed too many heartbeats from it. This can happen when a "+
				"raylet crashes unexpectedly, when the node is preempted, or when it has lagging heartbeats "+
				"due to a slow network or busy workload",
			r.NodeID, r.NodeManagerAddress, r.NodeName,
		),
		TimestampMs: r.EndTimeMs,
	}

	if err := e.cfg.Publisher.PublishError(ctx, r.NodeID.String(), data, nil); err != nil {
		level.Error(e.cfg.Logger).Log("msg", "publish error event failed", "node_id", r.NodeID, "err", err)
	}
}

// shutdownRaylet issues a graceful ShutdownRaylet RPC and publishes the
// node-info delta once a reply arrives, regardless of whether it is an
// error: a transient peer RPC failure does not change the node's DEAD state.
func (e *Engine) shutdownRaylet(ctx context.Context, r *NodeRecord) {
	addr := Address{RayletID: r.NodeID, IP: r.NodeManagerAddress, Port: r.NodeManagerPort}

	client, err := e.cfg.RayletClientPool.GetOrConnectByAddress(ctx, addr)
	if err != nil {
		level.Error(e.cfg.Logger).Log("msg", "failed to connect to raylet for shutdown", "node_id", r.NodeID, "err", err)
		e.publishNodeInfoDelta(ctx, r)
		return
	}

	delta := r.Clone()

	client.ShutdownRaylet(ctx, r.NodeID, true, func(err error, _ *ShutdownReply) {
		if err != nil {
			level.Error(e.cfg.Logger).Log("msg", "shutdown raylet rpc failed", "node_id", r.NodeID, "err", err)
		}
		e.publishNodeInfoDelta(ctx, delta)
	})
}

func (e *Engine) notifyGCSRestart(ctx context.Context, r *NodeRecord) {
	addr := Address{RayletID: r.NodeID, IP: r.NodeManagerAddress, Port: r.NodeManagerPort}

	client, err := e.cfg.RayletClientPool.GetOrConnectByAddress(ctx, addr)
	if err != nil {
		level.Error(e.cfg.Logger).Log("msg", "failed to connect to raylet for restart notification", "node_id", r.NodeID, "err", err)
		return
	}

	client.NotifyGCSRestart(ctx, nil)
}

// fatal logs and panics. Invariant violations and durable-write failures on
// the critical path are unrecoverable: the in-memory index is the primary
// source of truth and cannot be allowed to silently diverge from storage.
func (e *Engine) fatal(msg string, err error) {
	level.Error(e.cfg.Logger).Log("msg", msg, "err", err)
	panic(fmt.Sprintf("nodemanager: %s: %v", msg, err))
}
