// Package proto holds the wire messages and the gRPC service definition for
// the node manager's RPC Surface. Messages are plain structs with json
// tags, carried over gRPC using the "proto" codec registered by
// internal/rpcjson (see that package's doc comment for why).
package proto

// NodeInfo is the wire form of a nodemanager.NodeRecord.
type NodeInfo struct {
	NodeID             []byte         `json:"node_id"`
	NodeManagerAddress string         `json:"node_manager_address"`
	NodeManagerPort    int32          `json:"node_manager_port"`
	NodeName           string         `json:"node_name"`
	IsHeadNode         bool           `json:"is_head_node"`
	State              int32          `json:"state"`
	StartTimeMs        int64          `json:"start_time_ms"`
	EndTimeMs          int64          `json:"end_time_ms"`
	DeathInfo          *NodeDeathInfo `json:"death_info,omitempty"`
}

// NodeDeathInfo is the wire form of a nodemanager.DeathInfo.
type NodeDeathInfo struct {
	Reason      int32 `json:"reason"`
	DrainReason int32 `json:"drain_reason"`
}

type GetClusterIdRequest struct{}

type GetClusterIdReply struct {
	ClusterID []byte `json:"cluster_id"`
}

type RegisterNodeRequest struct {
	NodeInfo *NodeInfo `json:"node_info"`
}

type RegisterNodeReply struct{}

type DrainNodeData struct {
	NodeID []byte `json:"node_id"`
}

type DrainNodeRequest struct {
	DrainNodeData []*DrainNodeData `json:"drain_node_data"`
}

type DrainNodeStatus struct {
	NodeID []byte `json:"node_id"`
}

type DrainNodeReply struct {
	DrainNodeStatus []*DrainNodeStatus `json:"drain_node_status"`
}

type CheckAliveRequest struct {
	RayletAddress []string `json:"raylet_address"`
}

type CheckAliveReply struct {
	RayVersion      string `json:"ray_version"`
	RayletAlive     []bool `json:"raylet_alive"`
	RayletPreempted []bool `json:"raylet_preempted"`
}

type GetAllNodeInfoRequest struct{}

type GetAllNodeInfoReply struct {
	NodeInfoList []*NodeInfo `json:"node_info_list"`
}

type GetInternalConfigRequest struct{}

type GetInternalConfigReply struct {
	Config string `json:"config"`
}
