package grpcclient

import (
	"context"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"

	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/raylet/proto"
)

// Client adapts a dialed raylet connection to nodemanager.RayletClient.
type Client struct {
	conn   *grpc.ClientConn
	rpc    proto.RayletServiceClient
	logger kitlog.Logger
}

func (c *Client) ShutdownRaylet(ctx context.Context, id nodemanager.NodeID, graceful bool, onReply func(error, *nodemanager.ShutdownReply)) {
	go func() {
		_, err := c.rpc.ShutdownRaylet(ctx, &proto.ShutdownRayletRequest{
			NodeID:   id.Bytes(),
			Graceful: graceful,
		})
		if err != nil {
			level.Warn(c.logger).Log("msg", "shutdown raylet rpc failed", "node_id", id, "err", err)
		}
		if onReply != nil {
			onReply(err, &nodemanager.ShutdownReply{})
		}
	}()
}

func (c *Client) NotifyGCSRestart(ctx context.Context, onReply func(error, *nodemanager.NotifyRestartReply)) {
	go func() {
		_, err := c.rpc.NotifyGCSRestart(ctx, &proto.NotifyGCSRestartRequest{})
		if err != nil {
			level.Warn(c.logger).Log("msg", "notify gcs restart rpc failed", "err", err)
		}
		if onReply != nil {
			onReply(err, &nodemanager.NotifyRestartReply{})
		}
	}()
}

// Close tears down the underlying connection. Not part of
// nodemanager.RayletClient; callers that own a Pool may use it during
// shutdown via a type assertion, but the pool itself outlives individual
// callers and does not close connections on their behalf.
func (c *Client) Close() error {
	return c.conn.Close()
}
