package nodemanager

import "context"

// fakeNodeTable is an in-memory NodeTable stub for engine tests. Operations
// complete synchronously, which is exactly what the real backends do too.
type fakeNodeTable struct {
	rows map[NodeID]*NodeRecord

	PutFunc   func(id NodeID, r *NodeRecord) error
	DeleteErr error
	deletes   []NodeID
	putCount  int
}

func newFakeNodeTable() *fakeNodeTable {
	return &fakeNodeTable{rows: make(map[NodeID]*NodeRecord)}
}

func (t *fakeNodeTable) Put(_ context.Context, id NodeID, r *NodeRecord, onDone func(error)) error {
	t.putCount++

	var err error
	if t.PutFunc != nil {
		err = t.PutFunc(id, r)
	}
	if err == nil {
		t.rows[id] = r
	}
	if onDone != nil {
		onDone(err)
	}
	return nil
}

func (t *fakeNodeTable) Get(_ context.Context, id NodeID, onDone func(*NodeRecord, error)) error {
	onDone(t.rows[id], nil)
	return nil
}

func (t *fakeNodeTable) Delete(_ context.Context, id NodeID, onDone func(error)) error {
	t.deletes = append(t.deletes, id)
	if t.DeleteErr == nil {
		delete(t.rows, id)
	}
	if onDone != nil {
		onDone(t.DeleteErr)
	}
	return nil
}

func (t *fakeNodeTable) BatchDelete(_ context.Context, ids []NodeID, onDone func(error)) error {
	for _, id := range ids {
		delete(t.rows, id)
		t.deletes = append(t.deletes, id)
	}
	if onDone != nil {
		onDone(nil)
	}
	return nil
}

func (t *fakeNodeTable) Scan(context.Context) ([]*NodeRecord, error) {
	out := make([]*NodeRecord, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	return out, nil
}

// fakeInternalConfigTable is an InternalConfigTable stub.
type fakeInternalConfigTable struct {
	entry *InternalConfigEntry
}

func (t *fakeInternalConfigTable) Get(_ context.Context, onDone func(*InternalConfigEntry, error)) error {
	onDone(t.entry, nil)
	return nil
}

// fakePublisher records every publish call made against it.
type fakePublisher struct {
	nodeInfo []*NodeRecord
	errors   []ErrorTableData
}

func (p *fakePublisher) PublishNodeInfo(_ context.Context, _ NodeID, r *NodeRecord, onDone func(error)) error {
	p.nodeInfo = append(p.nodeInfo, r)
	if onDone != nil {
		onDone(nil)
	}
	return nil
}

func (p *fakePublisher) PublishError(_ context.Context, _ string, data ErrorTableData, onDone func(error)) error {
	p.errors = append(p.errors, data)
	if onDone != nil {
		onDone(nil)
	}
	return nil
}

// fakeRayletClient records shutdown/restart calls.
type fakeRayletClient struct {
	shutdowns int
	restarts  int
}

func (c *fakeRayletClient) ShutdownRaylet(_ context.Context, _ NodeID, _ bool, onReply func(error, *ShutdownReply)) {
	c.shutdowns++
	if onReply != nil {
		onReply(nil, &ShutdownReply{})
	}
}

func (c *fakeRayletClient) NotifyGCSRestart(_ context.Context, onReply func(error, *NotifyRestartReply)) {
	c.restarts++
	if onReply != nil {
		onReply(nil, &NotifyRestartReply{})
	}
}

// fakeRayletClientPool hands out one shared fakeRayletClient per address.
type fakeRayletClientPool struct {
	clients map[string]*fakeRayletClient

	ConnectErr error
}

func newFakeRayletClientPool() *fakeRayletClientPool {
	return &fakeRayletClientPool{clients: make(map[string]*fakeRayletClient)}
}

func (p *fakeRayletClientPool) GetOrConnectByAddress(_ context.Context, addr Address) (RayletClient, error) {
	if p.ConnectErr != nil {
		return nil, p.ConnectErr
	}

	key := joinHostPort(addr.IP, addr.Port)
	c, ok := p.clients[key]
	if !ok {
		c = &fakeRayletClient{}
		p.clients[key] = c
	}
	return c, nil
}

func newTestEngine(clusterID ClusterID) (*Engine, *fakeNodeTable, *fakePublisher, *fakeRayletClientPool) {
	table := newFakeNodeTable()
	pub := &fakePublisher{}
	pool := newFakeRayletClientPool()

	cfg := DefaultConfig()
	cfg.NodeTable = table
	cfg.InternalConfigTable = &fakeInternalConfigTable{}
	cfg.Publisher = pub
	cfg.RayletClientPool = pool

	var now int64
	cfg.Clock = func() int64 {
		now++
		return now
	}

	e := NewEngine(clusterID, "3.0.0-test", cfg)
	return e, table, pub, pool
}
