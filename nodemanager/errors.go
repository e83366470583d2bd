package nodemanager

import "errors"

var (
	// ErrNoSuchNode is returned by SetDrainInfo when the node-id is not in
	// the live-set.
	ErrNoSuchNode = errors.New("nodemanager: no such node")

	// ErrMissingDrainReason signals that DrainNode was invoked on a record
	// whose death-info reason was never stamped AUTOSCALER_DRAIN by an
	// upstream caller, per the contract recorded in DESIGN.md.
	ErrMissingDrainReason = errors.New("nodemanager: drain requested without AUTOSCALER_DRAIN death reason")
)
