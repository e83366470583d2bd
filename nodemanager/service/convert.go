package service

import (
	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/nodemanager/proto"
)

func fromProtoNodeInfo(pb *proto.NodeInfo) *nodemanager.NodeRecord {
	if pb == nil {
		return nil
	}

	r := &nodemanager.NodeRecord{
		NodeID:             nodemanager.NodeIDFromBytes(pb.NodeID),
		NodeManagerAddress: pb.NodeManagerAddress,
		NodeManagerPort:    pb.NodeManagerPort,
		NodeName:           pb.NodeName,
		IsHeadNode:         pb.IsHeadNode,
		State:              nodemanager.State(pb.State),
		StartTimeMs:        pb.StartTimeMs,
		EndTimeMs:          pb.EndTimeMs,
	}

	if pb.DeathInfo != nil {
		r.DeathInfo = nodemanager.DeathInfo{
			Reason:      nodemanager.DeathReason(pb.DeathInfo.Reason),
			DrainReason: nodemanager.DrainReason(pb.DeathInfo.DrainReason),
		}
	}

	return r
}

func toProtoNodeInfo(r *nodemanager.NodeRecord) *proto.NodeInfo {
	return &proto.NodeInfo{
		NodeID:             r.NodeID.Bytes(),
		NodeManagerAddress: r.NodeManagerAddress,
		NodeManagerPort:    r.NodeManagerPort,
		NodeName:           r.NodeName,
		IsHeadNode:         r.IsHeadNode,
		State:              int32(r.State),
		StartTimeMs:        r.StartTimeMs,
		EndTimeMs:          r.EndTimeMs,
		DeathInfo: &proto.NodeDeathInfo{
			Reason:      int32(r.DeathInfo.Reason),
			DrainReason: int32(r.DeathInfo.DrainReason),
		},
	}
}
