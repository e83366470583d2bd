// Package eventbus is a process-local Publisher: the node-info and error
// channels are fanned out to any number of in-process subscribers over
// buffered Go channels, mirroring the broadcast-to-registered-receivers
// shape of the cluster event bus this package's design is adapted from, but
// without the network gossip layer (this process IS the sole GCS).
package eventbus

import (
	"context"
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/vitsai/ray/nodemanager"
)

// NodeInfoEvent is delivered to node-info subscribers on every publish.
type NodeInfoEvent struct {
	NodeID nodemanager.NodeID
	Record *nodemanager.NodeRecord
}

// ErrorEvent is delivered to error subscribers on every publish.
type ErrorEvent struct {
	ChannelKey string
	Data       nodemanager.ErrorTableData
}

// subscriberBuffer bounds how many undelivered events a slow subscriber can
// accumulate before Bus starts dropping its events rather than blocking the
// publisher.
const subscriberBuffer = 64

// Bus is an in-process nodemanager.Publisher.
type Bus struct {
	logger kitlog.Logger

	mut          sync.RWMutex
	nodeInfoSubs []chan NodeInfoEvent
	errorSubs    []chan ErrorEvent
}

// New returns an empty Bus.
func New(logger kitlog.Logger) *Bus {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Bus{logger: logger}
}

// SubscribeNodeInfo registers a new node-info receiver. The returned channel
// is never closed by Bus; callers unsubscribe by abandoning it (no
// deregistration is supported, matching the Listener Registry's contract).
func (b *Bus) SubscribeNodeInfo() <-chan NodeInfoEvent {
	ch := make(chan NodeInfoEvent, subscriberBuffer)

	b.mut.Lock()
	b.nodeInfoSubs = append(b.nodeInfoSubs, ch)
	b.mut.Unlock()

	return ch
}

// SubscribeErrors registers a new error-event receiver.
func (b *Bus) SubscribeErrors() <-chan ErrorEvent {
	ch := make(chan ErrorEvent, subscriberBuffer)

	b.mut.Lock()
	b.errorSubs = append(b.errorSubs, ch)
	b.mut.Unlock()

	return ch
}

// PublishNodeInfo implements nodemanager.Publisher.
func (b *Bus) PublishNodeInfo(_ context.Context, id nodemanager.NodeID, r *nodemanager.NodeRecord, onDone func(error)) error {
	event := NodeInfoEvent{NodeID: id, Record: r}

	b.mut.RLock()
	subs := b.nodeInfoSubs
	b.mut.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			level.Warn(b.logger).Log("msg", "dropping node-info event for slow subscriber", "node_id", id)
		}
	}

	if onDone != nil {
		onDone(nil)
	}
	return nil
}

// PublishError implements nodemanager.Publisher.
func (b *Bus) PublishError(_ context.Context, channelKey string, data nodemanager.ErrorTableData, onDone func(error)) error {
	event := ErrorEvent{ChannelKey: channelKey, Data: data}

	b.mut.RLock()
	subs := b.errorSubs
	b.mut.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			level.Warn(b.logger).Log("msg", "dropping error event for slow subscriber", "channel_key", channelKey)
		}
	}

	if onDone != nil {
		onDone(nil)
	}
	return nil
}
