// Package service is the RPC Surface: thin request decoders that validate
// the wire request, call into the Transition Engine, and translate the
// result into a gRPC reply and status.
package service

import (
	"fmt"

	kitlog "github.com/go-kit/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vitsai/ray/internal/counter"
	"github.com/vitsai/ray/internal/grpcutil"
	"github.com/vitsai/ray/nodemanager"
	"github.com/vitsai/ray/nodemanager/proto"
)

// Service implements proto.NodeManagerServiceServer over a nodemanager.Engine.
// Handler responsibility is limited to decoding, dispatching to the engine,
// and counter increment; all lifecycle logic lives in the engine.
type Service struct {
	engine *nodemanager.Engine
	logger kitlog.Logger

	registerNodeCount      counter.Counter
	drainNodeCount         counter.Counter
	getAllNodeInfoCount    counter.Counter
	getInternalConfigCount counter.Counter
}

var _ proto.NodeManagerServiceServer = (*Service)(nil)

// New wraps engine as a gRPC service.
func New(engine *nodemanager.Engine, logger kitlog.Logger) *Service {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Service{engine: engine, logger: logger}
}

// wrapEngineErr translates an error returned by the Transition Engine into
// a gRPC status error for op. If err already carries a gRPC status code
// (e.g. it propagated up from a context cancellation), that code is kept
// instead of being flattened to Internal.
func wrapEngineErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if code := grpcutil.ErrorCode(err); code != codes.Unknown {
		return status.Newf(code, "%s: %s", op, err).Err()
	}

	return status.Newf(codes.Internal, "%s: %s", op, err).Err()
}

// DebugString formats the four RPC counters plus the component name, per
// the RPC Surface's debug contract.
func (s *Service) DebugString() string {
	return fmt.Sprintf(
		"NodeManagerService:\n"+
			"- RegisterNodeRequest: %d\n"+
			"- DrainNodeRequest: %d\n"+
			"- GetAllNodeInfoRequest: %d\n"+
			"- GetInternalConfigRequest: %d\n",
		s.registerNodeCount.Get(),
		s.drainNodeCount.Get(),
		s.getAllNodeInfoCount.Get(),
		s.getInternalConfigCount.Get(),
	)
}
