package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitsai/ray/eventbus"
	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/nodemanager/proto"
	"github.com/vitsai/ray/nodetable"
)

type noopRayletClient struct{}

func (noopRayletClient) ShutdownRaylet(_ context.Context, _ nodemanager.NodeID, _ bool, onReply func(error, *nodemanager.ShutdownReply)) {
	if onReply != nil {
		onReply(nil, &nodemanager.ShutdownReply{})
	}
}

func (noopRayletClient) NotifyGCSRestart(_ context.Context, onReply func(error, *nodemanager.NotifyRestartReply)) {
	if onReply != nil {
		onReply(nil, &nodemanager.NotifyRestartReply{})
	}
}

type noopRayletClientPool struct{}

func (noopRayletClientPool) GetOrConnectByAddress(context.Context, nodemanager.Address) (nodemanager.RayletClient, error) {
	return noopRayletClient{}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := nodemanager.DefaultConfig()
	cfg.NodeTable = nodetable.NewInMemory()
	cfg.InternalConfigTable = nodetable.NewInMemoryConfigTable()
	cfg.Publisher = eventbus.New(nil)
	cfg.RayletClientPool = noopRayletClientPool{}

	engine := nodemanager.NewEngine(nodemanager.NewClusterID(), "3.0.0-test", cfg)
	return New(engine, nil)
}

func TestRegisterNode_InvalidArgument(t *testing.T) {
	s := newTestService(t)

	_, err := s.RegisterNode(context.Background(), &proto.RegisterNodeRequest{})
	require.Error(t, err)
}

func TestRegisterNode_ThenGetAllNodeInfo(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id := nodemanager.NewNodeID()
	_, err := s.RegisterNode(ctx, &proto.RegisterNodeRequest{
		NodeInfo: &proto.NodeInfo{
			NodeID:             id.Bytes(),
			NodeManagerAddress: "10.0.0.1",
			NodeManagerPort:    9000,
		},
	})
	require.NoError(t, err)

	reply, err := s.GetAllNodeInfo(ctx, &proto.GetAllNodeInfoRequest{})
	require.NoError(t, err)
	require.Len(t, reply.NodeInfoList, 1)
	assert.Equal(t, id.Bytes(), reply.NodeInfoList[0].NodeID)

	assert.Contains(t, s.DebugString(), "RegisterNodeRequest: 1")
}

func TestDrainNode_UnknownNodeReturnsStatusForThatID(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	unknown := nodemanager.NewNodeID()
	reply, err := s.DrainNode(ctx, &proto.DrainNodeRequest{
		DrainNodeData: []*proto.DrainNodeData{{NodeID: unknown.Bytes()}},
	})
	require.NoError(t, err)
	require.Len(t, reply.DrainNodeStatus, 1)
	assert.Equal(t, unknown.Bytes(), reply.DrainNodeStatus[0].NodeID)
}

func TestCheckAlive_Empty(t *testing.T) {
	s := newTestService(t)

	reply, err := s.CheckAlive(context.Background(), &proto.CheckAliveRequest{})
	require.NoError(t, err)
	assert.Empty(t, reply.RayletAlive)
	assert.Empty(t, reply.RayletPreempted)
	assert.Equal(t, "3.0.0-test", reply.RayVersion)
}

func TestGetInternalConfig_NoRowReturnsEmptyOK(t *testing.T) {
	s := newTestService(t)

	reply, err := s.GetInternalConfig(context.Background(), &proto.GetInternalConfigRequest{})
	require.NoError(t, err)
	assert.Empty(t, reply.Config)
}
