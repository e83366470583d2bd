// Package grpcclient is the default nodemanager.RayletClientPool: it dials
// each raylet's node-manager address over gRPC on first use and reuses the
// connection afterwards, deduplicating concurrent dials to the same address.
package grpcclient

import (
	"context"
	"net"
	"strconv"
	"sync"

	kitlog "github.com/go-kit/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"

	// registers the "proto" wire codec used by every call this client makes.
	_ "github.com/vitsai/ray/internal/rpcjson"
	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/raylet/proto"
)

var (
	_ nodemanager.RayletClientPool = &Pool{}
	_ nodemanager.RayletClient     = &Client{}
)

// Pool is a nodemanager.RayletClientPool backed by real gRPC connections.
type Pool struct {
	logger kitlog.Logger

	mut     sync.Mutex
	clients map[string]*Client
}

// New returns an empty Pool.
func New(logger kitlog.Logger) *Pool {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Pool{logger: logger, clients: make(map[string]*Client)}
}

// GetOrConnectByAddress implements nodemanager.RayletClientPool.
func (p *Pool) GetOrConnectByAddress(ctx context.Context, addr nodemanager.Address) (nodemanager.RayletClient, error) {
	key := joinHostPort(addr.IP, addr.Port)

	p.mut.Lock()
	if c, ok := p.clients[key]; ok {
		p.mut.Unlock()
		return c, nil
	}
	p.mut.Unlock()

	conn, err := grpc.DialContext(
		ctx,
		key,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.UseCompressor(gzip.Name)),
	)
	if err != nil {
		return nil, err
	}

	c := &Client{conn: conn, rpc: proto.NewRayletServiceClient(conn), logger: p.logger}

	p.mut.Lock()
	if existing, ok := p.clients[key]; ok {
		p.mut.Unlock()
		conn.Close()
		return existing, nil
	}
	p.clients[key] = c
	p.mut.Unlock()

	return c, nil
}

func joinHostPort(ip string, port int32) string {
	return net.JoinHostPort(ip, strconv.Itoa(int(port)))
}
