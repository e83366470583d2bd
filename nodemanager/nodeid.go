package nodemanager

import (
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// NodeID is the opaque, cluster-wide unique identifier of a node. It holds
// raw bytes (16-32 of them in practice) rather than a parsed structure,
// mirroring the wire representation used by the RPC Surface.
type NodeID string

// NewNodeID generates a random 16-byte node identifier.
func NewNodeID() NodeID {
	id := uuid.New()
	return NodeID(id[:])
}

// NodeIDFromBytes wraps a byte slice as a NodeID without copying semantics
// beyond what the caller already owns.
func NodeIDFromBytes(b []byte) NodeID {
	return NodeID(b)
}

// Bytes returns the raw bytes of the identifier.
func (id NodeID) Bytes() []byte {
	return []byte(id)
}

// String returns the hex-encoded representation of the identifier, used for
// logging and error messages.
func (id NodeID) String() string {
	return hex.EncodeToString([]byte(id))
}

// IsNil reports whether the identifier is the empty/unset value.
func (id NodeID) IsNil() bool {
	return len(id) == 0
}

// MarshalJSON encodes the identifier as a hex string, since the raw bytes
// held by NodeID are not generally valid UTF-8.
func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes a hex-encoded identifier produced by MarshalJSON.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}

	*id = NodeID(b)
	return nil
}

// ClusterID is the immutable binary identifier of the cluster, returned by
// GetClusterId and otherwise opaque to this package.
type ClusterID []byte

// NewClusterID generates a random 16-byte cluster identifier.
func NewClusterID() ClusterID {
	id := uuid.New()
	return ClusterID(id[:])
}
