package service

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vitsai/ray/nodemanager/proto"
)

func validateRegisterNodeRequest(req *proto.RegisterNodeRequest) error {
	if req == nil || req.NodeInfo == nil {
		return status.Newf(codes.InvalidArgument, "node_info is required").Err()
	}

	if len(req.NodeInfo.NodeID) == 0 {
		return status.Newf(codes.InvalidArgument, "node_info.node_id is empty").Err()
	}

	if req.NodeInfo.NodeManagerAddress == "" {
		return status.Newf(codes.InvalidArgument, "node_info.node_manager_address is empty").Err()
	}

	return nil
}

func (s *Service) GetClusterId(ctx context.Context, req *proto.GetClusterIdRequest) (*proto.GetClusterIdReply, error) {
	return &proto.GetClusterIdReply{ClusterID: s.engine.GetClusterId()}, nil
}

func (s *Service) RegisterNode(ctx context.Context, req *proto.RegisterNodeRequest) (*proto.RegisterNodeReply, error) {
	s.registerNodeCount.Add(1)

	if err := validateRegisterNodeRequest(req); err != nil {
		return nil, err
	}

	if err := s.engine.RegisterNode(ctx, fromProtoNodeInfo(req.NodeInfo)); err != nil {
		return nil, wrapEngineErr("register node", err)
	}

	return &proto.RegisterNodeReply{}, nil
}
