package service

import (
	"context"

	"github.com/vitsai/ray/nodemanager/proto"
)

func (s *Service) CheckAlive(ctx context.Context, req *proto.CheckAliveRequest) (*proto.CheckAliveReply, error) {
	alive, preempted, rayVersion := s.engine.CheckAlive(ctx, req.RayletAddress)

	return &proto.CheckAliveReply{
		RayVersion:      rayVersion,
		RayletAlive:     alive,
		RayletPreempted: preempted,
	}, nil
}

func (s *Service) GetAllNodeInfo(ctx context.Context, req *proto.GetAllNodeInfoRequest) (*proto.GetAllNodeInfoReply, error) {
	s.getAllNodeInfoCount.Add(1)

	records := s.engine.GetAllNodeInfo()
	list := make([]*proto.NodeInfo, 0, len(records))
	for _, r := range records {
		list = append(list, toProtoNodeInfo(r))
	}

	return &proto.GetAllNodeInfoReply{NodeInfoList: list}, nil
}

func (s *Service) GetInternalConfig(ctx context.Context, req *proto.GetInternalConfigRequest) (*proto.GetInternalConfigReply, error) {
	s.getInternalConfigCount.Add(1)

	config, err := s.engine.GetInternalConfig(ctx)
	if err != nil {
		return nil, wrapEngineErr("get internal config", err)
	}

	return &proto.GetInternalConfigReply{Config: config}, nil
}
