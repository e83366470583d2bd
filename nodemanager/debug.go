package nodemanager

// Stats is a point-in-time snapshot of Node Index sizes, reported by the
// server's debug HTTP endpoint.
type Stats struct {
	LiveNodes        int
	DeadNodes        int
	DeadCacheEntries int
}

// Stats returns a snapshot of the Node Index.
func (e *Engine) Stats() Stats {
	return Stats{
		LiveNodes:        e.index.liveCount(),
		DeadNodes:        e.index.deadCount(),
		DeadCacheEntries: e.deadCache.len(),
	}
}
