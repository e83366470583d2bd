package service

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vitsai/ray/internal/multierror"
	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/nodemanager/proto"
)

// DrainNode processes the entries in request order. An engine error on one
// node-id is recorded and the remaining entries are still drained; if any
// entry failed, the per-node errors are returned combined as the call's
// error and no reply is returned. An entry with an empty node-id stops
// processing at once with InvalidArgument; entries before it have already
// been drained.
func (s *Service) DrainNode(ctx context.Context, req *proto.DrainNodeRequest) (*proto.DrainNodeReply, error) {
	s.drainNodeCount.Add(1)

	statuses := make([]*proto.DrainNodeStatus, 0, len(req.DrainNodeData))
	failures := multierror.New[nodemanager.NodeID]()

	for _, data := range req.DrainNodeData {
		if len(data.NodeID) == 0 {
			return nil, status.Newf(codes.InvalidArgument, "drain_node_data.node_id is empty").Err()
		}

		id := nodemanager.NodeIDFromBytes(data.NodeID)

		if err := s.engine.DrainNode(ctx, id); err != nil {
			failures.Add(id, err)
			continue
		}

		statuses = append(statuses, &proto.DrainNodeStatus{NodeID: data.NodeID})
	}

	if err := failures.Combined(); err != nil {
		return nil, wrapEngineErr("drain node", err)
	}

	return &proto.DrainNodeReply{DrainNodeStatus: statuses}, nil
}
