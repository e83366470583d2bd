package nodemanager

import "context"

//go:generate mockgen -source=facilities.go -destination=facilities_mock_test.go -package=nodemanager

// NodeTable is the durable key/value table that backs the Node Index, keyed
// by NodeID. All operations are asynchronous: the method itself only
// reports submission failure, and onDone (when non-nil) fires once the
// operation has actually completed against the backing store. Concrete
// implementations live under nodetable/.
type NodeTable interface {
	// Put durably writes the record under id. onDone fires with the result
	// of the write; it is never nil on RegisterNode/DrainNode/OnNodeFailure
	// paths, since a failed Put on those paths is fatal to the process.
	Put(ctx context.Context, id NodeID, record *NodeRecord, onDone func(error)) error

	// Get fetches the record stored under id. onDone fires with the record
	// (nil if absent) and the operation's error.
	Get(ctx context.Context, id NodeID, onDone func(*NodeRecord, error)) error

	// Delete removes the row for id. onDone may be nil: callers on the
	// best-effort eviction path do not want to be notified.
	Delete(ctx context.Context, id NodeID, onDone func(error)) error

	// BatchDelete removes the rows for all given ids in one operation.
	BatchDelete(ctx context.Context, ids []NodeID, onDone func(error)) error

	// Scan returns every row currently in the table, used by Initialize at
	// startup. Unlike the mutating methods this one is synchronous: startup
	// recovery has nothing useful to overlap it with.
	Scan(ctx context.Context) ([]*NodeRecord, error)
}

// InternalConfigEntry is the value type stored under the well-known NIL key
// of the InternalConfigTable.
type InternalConfigEntry struct {
	Config string
}

// InternalConfigTable is the durable table consulted by GetInternalConfig.
type InternalConfigTable interface {
	// Get fetches the single well-known entry. onDone fires with nil, nil
	// when the row does not exist.
	Get(ctx context.Context, onDone func(*InternalConfigEntry, error)) error
}

// ErrorTableData is the payload published to driver subscribers on the error
// channel by OnNodeFailure.
type ErrorTableData struct {
	Type        string
	Message     string
	TimestampMs int64
}

// Publisher is the pub/sub bus that change events are published on. It is an
// external collaborator owned by cluster-management clients outside this
// process; a process-local implementation lives under eventbus/.
type Publisher interface {
	// PublishNodeInfo publishes a (possibly partial, "delta") NodeRecord on
	// the node-info channel for the given node. onDone may be nil.
	PublishNodeInfo(ctx context.Context, id NodeID, record *NodeRecord, onDone func(error)) error

	// PublishError publishes an out-of-band error event, keyed by
	// channelKey (conventionally the node-id's hex form). onDone may be nil.
	PublishError(ctx context.Context, channelKey string, data ErrorTableData, onDone func(error)) error
}

// Address identifies a raylet to dial: its own node-id plus its node-manager
// ip:port.
type Address struct {
	RayletID NodeID
	IP       string
	Port     int32
}

// ShutdownReply is the raylet's reply to a ShutdownRaylet RPC.
type ShutdownReply struct{}

// NotifyRestartReply is the raylet's reply to a NotifyGCSRestart RPC.
type NotifyRestartReply struct{}

// RayletClient is a connection to one raylet's node-manager RPC service.
type RayletClient interface {
	// ShutdownRaylet asks the raylet to shut down. onReply fires with
	// whatever status/reply the raylet returns; DrainNode does not treat a
	// failed reply as fatal, since the raylet may already be gone.
	ShutdownRaylet(ctx context.Context, id NodeID, graceful bool, onReply func(error, *ShutdownReply))

	// NotifyGCSRestart tells a raylet that the node manager has restarted
	// and it should resubscribe. onReply may be nil.
	NotifyGCSRestart(ctx context.Context, onReply func(error, *NotifyRestartReply))
}

// RayletClientPool resolves raylet addresses to live connections. It is
// assumed internally thread-safe; GetOrConnectByAddress may be called
// concurrently from multiple transitions.
type RayletClientPool interface {
	GetOrConnectByAddress(ctx context.Context, addr Address) (RayletClient, error)
}

// Clock abstracts the wall-clock source used for EndTimeMs, so tests can
// control time instead of sleeping.
type Clock func() int64
