package grpcclient

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	_ "github.com/vitsai/ray/internal/rpcjson"
	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/raylet/proto"
)

// testServer is a minimal stand-in for a raylet's node-manager RPC service,
// just enough to exercise the client stub end to end.
type testServer struct {
	mut       sync.Mutex
	shutdowns []*proto.ShutdownRayletRequest
	restarts  int
}

func (s *testServer) ShutdownRaylet(ctx context.Context, req *proto.ShutdownRayletRequest) (*proto.ShutdownRayletReply, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.shutdowns = append(s.shutdowns, req)
	return &proto.ShutdownRayletReply{}, nil
}

func (s *testServer) NotifyGCSRestart(ctx context.Context, req *proto.NotifyGCSRestartRequest) (*proto.NotifyGCSRestartReply, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.restarts++
	return &proto.NotifyGCSRestartReply{}, nil
}

// testServerIface is the handler-type interface grpc.Server.RegisterService
// expects; it must be an interface, not the concrete *testServer type.
type testServerIface interface {
	ShutdownRaylet(ctx context.Context, req *proto.ShutdownRayletRequest) (*proto.ShutdownRayletReply, error)
	NotifyGCSRestart(ctx context.Context, req *proto.NotifyGCSRestartRequest) (*proto.NotifyGCSRestartReply, error)
}

var testServiceDesc = grpc.ServiceDesc{
	ServiceName: "ray.rpc.NodeManagerService",
	HandlerType: (*testServerIface)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ShutdownRaylet",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(proto.ShutdownRayletRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				return srv.(*testServer).ShutdownRaylet(ctx, in)
			},
		},
		{
			MethodName: "NotifyGCSRestart",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(proto.NotifyGCSRestartRequest)
				if err := dec(in); err != nil {
					return nil, err
				}
				return srv.(*testServer).NotifyGCSRestart(ctx, in)
			},
		},
	},
}

func startTestServer(t *testing.T) (addr string, srv *testServer) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv = &testServer{}
	gs := grpc.NewServer()
	gs.RegisterService(&testServiceDesc, srv)

	go gs.Serve(lis)
	t.Cleanup(gs.Stop)

	return lis.Addr().String(), srv
}

func TestPool_GetOrConnectByAddress_DedupesByAddress(t *testing.T) {
	hostPort, _ := startTestServer(t)
	host, portStr, err := net.SplitHostPort(hostPort)
	require.NoError(t, err)

	portNum, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	port := int32(portNum)

	pool := New(kitlog.NewNopLogger())
	addr := nodemanager.Address{IP: host, Port: port}

	c1, err := pool.GetOrConnectByAddress(context.Background(), addr)
	require.NoError(t, err)

	c2, err := pool.GetOrConnectByAddress(context.Background(), addr)
	require.NoError(t, err)

	require.Same(t, c1, c2)
}

func TestClient_ShutdownRaylet_AndNotifyGCSRestart(t *testing.T) {
	hostPort, srv := startTestServer(t)
	host, portStr, err := net.SplitHostPort(hostPort)
	require.NoError(t, err)

	portNum, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	port := int32(portNum)

	pool := New(kitlog.NewNopLogger())
	client, err := pool.GetOrConnectByAddress(context.Background(), nodemanager.Address{IP: host, Port: port})
	require.NoError(t, err)

	id := nodemanager.NewNodeID()
	replyCh := make(chan *nodemanager.ShutdownReply, 1)
	client.ShutdownRaylet(context.Background(), id, true, func(err error, reply *nodemanager.ShutdownReply) {
		require.NoError(t, err)
		replyCh <- reply
	})

	select {
	case <-replyCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for shutdown reply")
	}

	require.Len(t, srv.shutdowns, 1)
	require.Equal(t, id.Bytes(), srv.shutdowns[0].NodeID)
	require.True(t, srv.shutdowns[0].Graceful)

	restartCh := make(chan *nodemanager.NotifyRestartReply, 1)
	client.NotifyGCSRestart(context.Background(), func(err error, reply *nodemanager.NotifyRestartReply) {
		require.NoError(t, err)
		restartCh <- reply
	})

	select {
	case <-restartCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for restart reply")
	}

	require.Equal(t, 1, srv.restarts)
}
