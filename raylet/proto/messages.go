// Package proto holds the wire messages and client stub for the raylet
// node-manager RPC this process calls outbound: ShutdownRaylet and
// NotifyGCSRestart. Like nodemanager/proto, messages are plain structs
// carried over the "proto" codec registered by internal/rpcjson.
package proto

import (
	"context"

	"google.golang.org/grpc"
)

type ShutdownRayletRequest struct {
	NodeID   []byte `json:"node_id"`
	Graceful bool   `json:"graceful"`
}

type ShutdownRayletReply struct{}

type NotifyGCSRestartRequest struct{}

type NotifyGCSRestartReply struct{}

// RayletServiceClient is the client-side stub for the raylet's own
// node-manager RPC service. Only the two methods this process calls on
// raylets are included; the rest of that service is out of scope.
type RayletServiceClient interface {
	ShutdownRaylet(ctx context.Context, in *ShutdownRayletRequest, opts ...grpc.CallOption) (*ShutdownRayletReply, error)
	NotifyGCSRestart(ctx context.Context, in *NotifyGCSRestartRequest, opts ...grpc.CallOption) (*NotifyGCSRestartReply, error)
}

type rayletServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRayletServiceClient wraps an already-dialed connection to a raylet.
func NewRayletServiceClient(cc grpc.ClientConnInterface) RayletServiceClient {
	return &rayletServiceClient{cc}
}

func (c *rayletServiceClient) ShutdownRaylet(ctx context.Context, in *ShutdownRayletRequest, opts ...grpc.CallOption) (*ShutdownRayletReply, error) {
	out := new(ShutdownRayletReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/ShutdownRaylet", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rayletServiceClient) NotifyGCSRestart(ctx context.Context, in *NotifyGCSRestartRequest, opts ...grpc.CallOption) (*NotifyGCSRestartReply, error) {
	out := new(NotifyGCSRestartReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/NotifyGCSRestart", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
