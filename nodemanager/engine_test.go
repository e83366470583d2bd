package nodemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id NodeID, addr string, port int32, headNode bool) *NodeRecord {
	return &NodeRecord{
		NodeID:             id,
		NodeManagerAddress: addr,
		NodeManagerPort:    port,
		NodeName:           "node-" + id.String()[:6],
		IsHeadNode:         headNode,
	}
}

func TestRegisterNode_HeadReplacement(t *testing.T) {
	e, _, pub, _ := newTestEngine(NewClusterID())
	ctx := context.Background()

	n1 := newRecord(NewNodeID(), "10.0.0.1", 1000, true)
	n2 := newRecord(NewNodeID(), "10.0.0.2", 1000, true)

	require.NoError(t, e.RegisterNode(ctx, n1))
	require.NoError(t, e.RegisterNode(ctx, n2))

	all := e.GetAllNodeInfo()
	byID := map[NodeID]*NodeRecord{}
	for _, r := range all {
		byID[r.NodeID] = r
	}

	assert.Equal(t, StateDead, byID[n1.NodeID].State)
	assert.Equal(t, DeathReasonUnexpectedTermination, byID[n1.NodeID].DeathInfo.Reason)
	assert.Equal(t, StateAlive, byID[n2.NodeID].State)

	aliveN2, ok := e.GetAliveNode(n2.NodeID)
	require.True(t, ok)
	assert.Equal(t, n2.NodeID, aliveN2.NodeID)

	_, stillAlive := e.GetAliveNode(n1.NodeID)
	assert.False(t, stillAlive)

	// Two publishes: (N1, DEAD) before (N2, ALIVE).
	require.Len(t, pub.nodeInfo, 2)
	assert.Equal(t, n1.NodeID, pub.nodeInfo[0].NodeID)
	assert.Equal(t, StateDead, pub.nodeInfo[0].State)
	assert.Equal(t, n2.NodeID, pub.nodeInfo[1].NodeID)
	assert.Equal(t, StateAlive, pub.nodeInfo[1].State)
}

func TestRegisterNode_DuplicateIsIdempotent(t *testing.T) {
	e, table, _, _ := newTestEngine(NewClusterID())
	ctx := context.Background()

	n := newRecord(NewNodeID(), "10.0.0.1", 1000, false)
	require.NoError(t, e.RegisterNode(ctx, n))
	require.NoError(t, e.RegisterNode(ctx, n))

	assert.Equal(t, 1, table.putCount)
}

func TestIsNodePreempted(t *testing.T) {
	e, _, _, _ := newTestEngine(NewClusterID())
	ctx := context.Background()

	n := newRecord(NewNodeID(), "10.0.0.1", 9000, false)
	require.NoError(t, e.RegisterNode(ctx, n))

	require.NoError(t, e.SetDrainInfo(n.NodeID, DeathReasonAutoscalerDrain, DrainReasonPreemption))

	done := make(chan struct{})
	e.OnNodeFailure(ctx, n.NodeID, func(error) { close(done) })
	<-done

	alive, preempted, _ := e.CheckAlive(ctx, []string{"10.0.0.1:9000"})
	assert.Equal(t, []bool{false}, alive)
	assert.Equal(t, []bool{true}, preempted)
}

func TestDeadNodeCache_Eviction(t *testing.T) {
	e, table, _, _ := newTestEngine(NewClusterID())
	ctx := context.Background()
	e.cfg.MaxDeadNodesCached = 2
	e.deadCache.maxCached = 2

	n1 := newRecord(NewNodeID(), "10.0.0.1", 1, false)
	n2 := newRecord(NewNodeID(), "10.0.0.2", 1, false)
	n3 := newRecord(NewNodeID(), "10.0.0.3", 1, false)

	for _, n := range []*NodeRecord{n1, n2, n3} {
		require.NoError(t, e.RegisterNode(ctx, n))
		require.NoError(t, e.SetDrainInfo(n.NodeID, DeathReasonAutoscalerDrain, DrainReasonUnspecified))
		require.NoError(t, e.DrainNode(ctx, n.NodeID))
	}

	all := e.GetAllNodeInfo()
	deadIDs := map[NodeID]bool{}
	for _, r := range all {
		if r.State == StateDead {
			deadIDs[r.NodeID] = true
		}
	}

	assert.Len(t, deadIDs, 2)
	assert.False(t, deadIDs[n1.NodeID], "n1 should have been evicted as the oldest death")
	assert.True(t, deadIDs[n2.NodeID])
	assert.True(t, deadIDs[n3.NodeID])
	assert.Contains(t, table.deletes, n1.NodeID)
}

func TestIsNodePreempted_FallsBackToDurableScanAfterEviction(t *testing.T) {
	e, table, _, _ := newTestEngine(NewClusterID())
	ctx := context.Background()
	e.cfg.MaxDeadNodesCached = 1
	e.deadCache.maxCached = 1
	table.DeleteErr = errors.New("simulated delete failure")

	n1 := newRecord(NewNodeID(), "10.0.0.1", 9000, false)
	require.NoError(t, e.RegisterNode(ctx, n1))
	require.NoError(t, e.SetDrainInfo(n1.NodeID, DeathReasonAutoscalerDrain, DrainReasonPreemption))
	require.NoError(t, e.DrainNode(ctx, n1.NodeID))

	n2 := newRecord(NewNodeID(), "10.0.0.2", 9000, false)
	require.NoError(t, e.RegisterNode(ctx, n2))
	require.NoError(t, e.SetDrainInfo(n2.NodeID, DeathReasonAutoscalerDrain, DrainReasonUnspecified))
	require.NoError(t, e.DrainNode(ctx, n2.NodeID))

	// n1 was evicted from the in-memory dead-set to make room for n2, but its
	// durable row survives since the delete above was made to fail.
	require.Nil(t, e.index.getDead(n1.NodeID))

	assert.True(t, e.IsNodePreempted(ctx, n1.Address()))
}

func TestInitialize_RestartRecovery(t *testing.T) {
	clusterID := NewClusterID()
	table := newFakeNodeTable()
	pool := newFakeRayletClientPool()

	n1 := newRecord(NewNodeID(), "10.0.0.1", 1, false)
	n1.State = StateAlive

	n2 := newRecord(NewNodeID(), "10.0.0.2", 1, false)
	n2.State, n2.EndTimeMs = StateDead, 50

	n3 := newRecord(NewNodeID(), "10.0.0.3", 1, false)
	n3.State, n3.EndTimeMs = StateDead, 10

	table.rows[n1.NodeID] = n1
	table.rows[n2.NodeID] = n2
	table.rows[n3.NodeID] = n3

	cfg := DefaultConfig()
	cfg.NodeTable = table
	cfg.InternalConfigTable = &fakeInternalConfigTable{}
	cfg.Publisher = &fakePublisher{}
	cfg.RayletClientPool = pool

	e := NewEngine(clusterID, "3.0.0-test", cfg)

	var added []NodeID
	e.AddNodeAddedListener(func(r *NodeRecord) { added = append(added, r.NodeID) })

	require.NoError(t, e.Initialize(context.Background()))

	_, aliveOK := e.GetAliveNode(n1.NodeID)
	assert.True(t, aliveOK)
	assert.Equal(t, []NodeID{n1.NodeID}, added)

	stats := e.Stats()
	assert.Equal(t, 1, stats.LiveNodes)
	assert.Equal(t, 2, stats.DeadNodes)

	key := joinHostPort(n1.NodeManagerAddress, n1.NodeManagerPort)
	require.Contains(t, pool.clients, key)
	assert.Equal(t, 1, pool.clients[key].restarts)
}

func TestDrainNode_UnknownNodeIsNoOp(t *testing.T) {
	e, _, pub, pool := newTestEngine(NewClusterID())

	unknown := NewNodeID()
	require.NoError(t, e.DrainNode(context.Background(), unknown))

	assert.Empty(t, pub.nodeInfo)
	assert.Empty(t, pool.clients)
}

func TestGetInternalConfig_EmptyIsOK(t *testing.T) {
	e, _, _, _ := newTestEngine(NewClusterID())

	cfg, err := e.GetInternalConfig(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestCheckAlive_Empty(t *testing.T) {
	e, _, _, _ := newTestEngine(NewClusterID())

	alive, preempted, version := e.CheckAlive(context.Background(), nil)
	assert.Empty(t, alive)
	assert.Empty(t, preempted)
	assert.Equal(t, "3.0.0-test", version)
}

func TestOnNodeFailure_AfterDrainIsNoOp(t *testing.T) {
	e, _, pub, _ := newTestEngine(NewClusterID())
	ctx := context.Background()

	n := newRecord(NewNodeID(), "10.0.0.1", 1, false)
	require.NoError(t, e.RegisterNode(ctx, n))
	require.NoError(t, e.SetDrainInfo(n.NodeID, DeathReasonAutoscalerDrain, DrainReasonIdle))
	require.NoError(t, e.DrainNode(ctx, n.NodeID))

	before := len(pub.nodeInfo)

	done := make(chan struct{})
	e.OnNodeFailure(ctx, n.NodeID, func(error) { close(done) })
	<-done

	assert.Empty(t, pub.errors, "OnNodeFailure on an already-dead node must not publish a second error event")
	assert.Len(t, pub.nodeInfo, before)
}
