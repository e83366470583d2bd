package nodemanager

import (
	kitlog "github.com/go-kit/log"
)

// Config configures an Engine.
type Config struct {
	// Logger receives structured log events for every transition and error.
	Logger kitlog.Logger

	// MaxDeadNodesCached bounds the Dead-Node Cache's resident size. Zero
	// means unbounded (no eviction).
	MaxDeadNodesCached int

	// Clock supplies EndTimeMs on the DEAD transition. StartTimeMs is taken
	// from the registering caller, not from Clock. Defaults to the wall clock.
	Clock Clock

	NodeTable           NodeTable
	InternalConfigTable InternalConfigTable
	Publisher           Publisher
	RayletClientPool    RayletClientPool
}

// DefaultConfig returns a Config with every field set to a usable default
// except the external collaborators (NodeTable, InternalConfigTable,
// Publisher, RayletClientPool), which callers must supply themselves.
func DefaultConfig() Config {
	return Config{
		Logger:             kitlog.NewNopLogger(),
		MaxDeadNodesCached: 1000,
		Clock:              wallClock,
	}
}
