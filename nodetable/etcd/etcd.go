// Package etcd implements the node manager's NodeTable and
// InternalConfigTable on top of etcd, so node records and the internal
// config survive a node manager process restart.
package etcd

import (
	"context"
	"encoding/json"
	"fmt"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/vitsai/ray/nodemanager"
)

const (
	nodeKeyPrefix     = "/ray/gcs/nodes/"
	internalConfigKey = "/ray/gcs/internal_config"
)

// wireRecord is the JSON-on-the-wire shape of a nodemanager.NodeRecord.
// Kept distinct from NodeRecord itself so a field rename on one side does
// not silently change the other's wire format.
type wireRecord struct {
	NodeID             nodemanager.NodeID      `json:"node_id"`
	NodeManagerAddress string                  `json:"node_manager_address"`
	NodeManagerPort    int32                   `json:"node_manager_port"`
	NodeName           string                  `json:"node_name"`
	IsHeadNode         bool                    `json:"is_head_node"`
	State              nodemanager.State       `json:"state"`
	StartTimeMs        int64                   `json:"start_time_ms"`
	EndTimeMs          int64                   `json:"end_time_ms"`
	DeathInfoReason    nodemanager.DeathReason `json:"death_info_reason"`
	DeathInfoDrain     nodemanager.DrainReason `json:"death_info_drain_reason"`
}

func toWire(r *nodemanager.NodeRecord) wireRecord {
	return wireRecord{
		NodeID:             r.NodeID,
		NodeManagerAddress: r.NodeManagerAddress,
		NodeManagerPort:    r.NodeManagerPort,
		NodeName:           r.NodeName,
		IsHeadNode:         r.IsHeadNode,
		State:              r.State,
		StartTimeMs:        r.StartTimeMs,
		EndTimeMs:          r.EndTimeMs,
		DeathInfoReason:    r.DeathInfo.Reason,
		DeathInfoDrain:     r.DeathInfo.DrainReason,
	}
}

func (w wireRecord) toRecord() *nodemanager.NodeRecord {
	return &nodemanager.NodeRecord{
		NodeID:             w.NodeID,
		NodeManagerAddress: w.NodeManagerAddress,
		NodeManagerPort:    w.NodeManagerPort,
		NodeName:           w.NodeName,
		IsHeadNode:         w.IsHeadNode,
		State:              w.State,
		StartTimeMs:        w.StartTimeMs,
		EndTimeMs:          w.EndTimeMs,
		DeathInfo: nodemanager.DeathInfo{
			Reason:      w.DeathInfoReason,
			DrainReason: w.DeathInfoDrain,
		},
	}
}

// NodeTable is a nodemanager.NodeTable backed by an etcd key per node,
// under nodeKeyPrefix.
type NodeTable struct {
	client *clientv3.Client
	logger kitlog.Logger
}

// New wraps an already-dialed etcd client as a NodeTable.
func New(client *clientv3.Client, logger kitlog.Logger) *NodeTable {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &NodeTable{client: client, logger: logger}
}

func nodeKey(id nodemanager.NodeID) string {
	return nodeKeyPrefix + id.String()
}

func (t *NodeTable) Put(ctx context.Context, id nodemanager.NodeID, r *nodemanager.NodeRecord, onDone func(error)) error {
	body, err := json.Marshal(toWire(r))
	if err != nil {
		return fmt.Errorf("nodetable/etcd: marshal record: %w", err)
	}

	_, err = t.client.Put(ctx, nodeKey(id), string(body))
	if onDone != nil {
		onDone(err)
	}
	return nil
}

func (t *NodeTable) Get(ctx context.Context, id nodemanager.NodeID, onDone func(*nodemanager.NodeRecord, error)) error {
	resp, err := t.client.Get(ctx, nodeKey(id))
	if err != nil {
		onDone(nil, err)
		return nil
	}
	if len(resp.Kvs) == 0 {
		onDone(nil, nil)
		return nil
	}

	var w wireRecord
	if err := json.Unmarshal(resp.Kvs[0].Value, &w); err != nil {
		onDone(nil, fmt.Errorf("nodetable/etcd: unmarshal record %s: %w", id, err))
		return nil
	}

	onDone(w.toRecord(), nil)
	return nil
}

func (t *NodeTable) Delete(ctx context.Context, id nodemanager.NodeID, onDone func(error)) error {
	_, err := t.client.Delete(ctx, nodeKey(id))
	if err != nil {
		level.Warn(t.logger).Log("msg", "failed to delete node row", "node_id", id, "err", err)
	}
	if onDone != nil {
		onDone(err)
	}
	return nil
}

func (t *NodeTable) BatchDelete(ctx context.Context, ids []nodemanager.NodeID, onDone func(error)) error {
	txn := t.client.Txn(ctx)
	ops := make([]clientv3.Op, 0, len(ids))
	for _, id := range ids {
		ops = append(ops, clientv3.OpDelete(nodeKey(id)))
	}

	_, err := txn.Then(ops...).Commit()
	if onDone != nil {
		onDone(err)
	}
	return nil
}

func (t *NodeTable) Scan(ctx context.Context) ([]*nodemanager.NodeRecord, error) {
	resp, err := t.client.Get(ctx, nodeKeyPrefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("nodetable/etcd: scan: %w", err)
	}

	out := make([]*nodemanager.NodeRecord, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var w wireRecord
		if err := json.Unmarshal(kv.Value, &w); err != nil {
			level.Warn(t.logger).Log("msg", "skipping unparseable node row", "key", string(kv.Key), "err", err)
			continue
		}
		out = append(out, w.toRecord())
	}
	return out, nil
}

// InternalConfigTable is a nodemanager.InternalConfigTable backed by a
// single well-known etcd key.
type InternalConfigTable struct {
	client *clientv3.Client
}

// NewInternalConfigTable wraps an already-dialed etcd client.
func NewInternalConfigTable(client *clientv3.Client) *InternalConfigTable {
	return &InternalConfigTable{client: client}
}

func (t *InternalConfigTable) Get(ctx context.Context, onDone func(*nodemanager.InternalConfigEntry, error)) error {
	resp, err := t.client.Get(ctx, internalConfigKey)
	if err != nil {
		onDone(nil, err)
		return nil
	}
	if len(resp.Kvs) == 0 {
		onDone(nil, nil)
		return nil
	}

	var entry nodemanager.InternalConfigEntry
	if err := json.Unmarshal(resp.Kvs[0].Value, &entry); err != nil {
		onDone(nil, fmt.Errorf("nodetable/etcd: unmarshal internal config: %w", err))
		return nil
	}

	onDone(&entry, nil)
	return nil
}

// Put writes the internal config row. It is not part of the
// InternalConfigTable interface (only Get is consumed by the Transition
// Engine), and cmd/nodemanager-server does not call it.
func (t *InternalConfigTable) Put(ctx context.Context, entry *nodemanager.InternalConfigEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("nodetable/etcd: marshal internal config: %w", err)
	}

	_, err = t.client.Put(ctx, internalConfigKey, string(body))
	return err
}
