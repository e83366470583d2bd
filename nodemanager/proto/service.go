package proto

import (
	"context"

	"google.golang.org/grpc"
)

// NodeManagerServiceServer is the interface the RPC Surface implements.
type NodeManagerServiceServer interface {
	GetClusterId(context.Context, *GetClusterIdRequest) (*GetClusterIdReply, error)
	RegisterNode(context.Context, *RegisterNodeRequest) (*RegisterNodeReply, error)
	DrainNode(context.Context, *DrainNodeRequest) (*DrainNodeReply, error)
	CheckAlive(context.Context, *CheckAliveRequest) (*CheckAliveReply, error)
	GetAllNodeInfo(context.Context, *GetAllNodeInfoRequest) (*GetAllNodeInfoReply, error)
	GetInternalConfig(context.Context, *GetInternalConfigRequest) (*GetInternalConfigReply, error)
}

// NodeManagerServiceClient is the client-side interface raylets and
// cluster-management clients dial against.
type NodeManagerServiceClient interface {
	GetClusterId(ctx context.Context, in *GetClusterIdRequest, opts ...grpc.CallOption) (*GetClusterIdReply, error)
	RegisterNode(ctx context.Context, in *RegisterNodeRequest, opts ...grpc.CallOption) (*RegisterNodeReply, error)
	DrainNode(ctx context.Context, in *DrainNodeRequest, opts ...grpc.CallOption) (*DrainNodeReply, error)
	CheckAlive(ctx context.Context, in *CheckAliveRequest, opts ...grpc.CallOption) (*CheckAliveReply, error)
	GetAllNodeInfo(ctx context.Context, in *GetAllNodeInfoRequest, opts ...grpc.CallOption) (*GetAllNodeInfoReply, error)
	GetInternalConfig(ctx context.Context, in *GetInternalConfigRequest, opts ...grpc.CallOption) (*GetInternalConfigReply, error)
}

type nodeManagerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNodeManagerServiceClient wraps an already-dialed connection.
func NewNodeManagerServiceClient(cc grpc.ClientConnInterface) NodeManagerServiceClient {
	return &nodeManagerServiceClient{cc}
}

func (c *nodeManagerServiceClient) GetClusterId(ctx context.Context, in *GetClusterIdRequest, opts ...grpc.CallOption) (*GetClusterIdReply, error) {
	out := new(GetClusterIdReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/GetClusterId", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerServiceClient) RegisterNode(ctx context.Context, in *RegisterNodeRequest, opts ...grpc.CallOption) (*RegisterNodeReply, error) {
	out := new(RegisterNodeReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/RegisterNode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerServiceClient) DrainNode(ctx context.Context, in *DrainNodeRequest, opts ...grpc.CallOption) (*DrainNodeReply, error) {
	out := new(DrainNodeReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/DrainNode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerServiceClient) CheckAlive(ctx context.Context, in *CheckAliveRequest, opts ...grpc.CallOption) (*CheckAliveReply, error) {
	out := new(CheckAliveReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/CheckAlive", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerServiceClient) GetAllNodeInfo(ctx context.Context, in *GetAllNodeInfoRequest, opts ...grpc.CallOption) (*GetAllNodeInfoReply, error) {
	out := new(GetAllNodeInfoReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/GetAllNodeInfo", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerServiceClient) GetInternalConfig(ctx context.Context, in *GetInternalConfigRequest, opts ...grpc.CallOption) (*GetInternalConfigReply, error) {
	out := new(GetInternalConfigReply)
	if err := c.cc.Invoke(ctx, "/ray.rpc.NodeManagerService/GetInternalConfig", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _NodeManagerService_GetClusterId_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetClusterIdRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServiceServer).GetClusterId(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ray.rpc.NodeManagerService/GetClusterId"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServiceServer).GetClusterId(ctx, req.(*GetClusterIdRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManagerService_RegisterNode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterNodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServiceServer).RegisterNode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ray.rpc.NodeManagerService/RegisterNode"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServiceServer).RegisterNode(ctx, req.(*RegisterNodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManagerService_DrainNode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DrainNodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServiceServer).DrainNode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ray.rpc.NodeManagerService/DrainNode"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServiceServer).DrainNode(ctx, req.(*DrainNodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManagerService_CheckAlive_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckAliveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServiceServer).CheckAlive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ray.rpc.NodeManagerService/CheckAlive"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServiceServer).CheckAlive(ctx, req.(*CheckAliveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManagerService_GetAllNodeInfo_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetAllNodeInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServiceServer).GetAllNodeInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ray.rpc.NodeManagerService/GetAllNodeInfo"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServiceServer).GetAllNodeInfo(ctx, req.(*GetAllNodeInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManagerService_GetInternalConfig_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetInternalConfigRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServiceServer).GetInternalConfig(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ray.rpc.NodeManagerService/GetInternalConfig"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServiceServer).GetInternalConfig(ctx, req.(*GetInternalConfigRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// NodeManagerServiceDesc is the grpc.ServiceDesc passed to grpc.Server.RegisterService.
var NodeManagerServiceDesc = grpc.ServiceDesc{
	ServiceName: "ray.rpc.NodeManagerService",
	HandlerType: (*NodeManagerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetClusterId", Handler: _NodeManagerService_GetClusterId_Handler},
		{MethodName: "RegisterNode", Handler: _NodeManagerService_RegisterNode_Handler},
		{MethodName: "DrainNode", Handler: _NodeManagerService_DrainNode_Handler},
		{MethodName: "CheckAlive", Handler: _NodeManagerService_CheckAlive_Handler},
		{MethodName: "GetAllNodeInfo", Handler: _NodeManagerService_GetAllNodeInfo_Handler},
		{MethodName: "GetInternalConfig", Handler: _NodeManagerService_GetInternalConfig_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nodemanager/proto/service.go",
}
