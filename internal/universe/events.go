package universe

import (
	"sync"
	"time"

	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/discovery"
	"github.com/lox/deepfield/internal/spatial"
)

// EventType identifies a universe event.
type EventType string

const (
	EventTypeDiscovery      EventType = "discovery"
	EventTypeChunkGenerated EventType = "chunk_generated"
	EventTypeChunkEvicted   EventType = "chunk_evicted"
)

func (et EventType) String() string {
	return string(et)
}

// Event is anything published on the bus.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// DiscoveryEvent is published the tick the observer first comes within an
// object's discovery radius.
type DiscoveryEvent struct {
	Object    celestial.Object
	Record    discovery.Record
	Chunk     spatial.ChunkCoord
	timestamp time.Time
}

func (e DiscoveryEvent) EventType() EventType { return EventTypeDiscovery }
func (e DiscoveryEvent) Timestamp() time.Time { return e.timestamp }

// ChunkEvent is published when a chunk enters or leaves the active window.
type ChunkEvent struct {
	Type      EventType
	Coord     spatial.ChunkCoord
	Objects   int
	timestamp time.Time
}

func (e ChunkEvent) EventType() EventType { return e.Type }
func (e ChunkEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives published events.
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(event Event)

// OnEvent calls f(event).
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus fans events out to subscribers.
type EventBus interface {
	Subscribe(subscriber Subscriber)
	Unsubscribe(subscriber Subscriber)
	Publish(event Event)
}

// SimpleEventBus delivers events synchronously in subscription order.
type SimpleEventBus struct {
	mu          sync.Mutex
	subscribers []Subscriber
}

// NewEventBus creates an empty bus.
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber.
func (bus *SimpleEventBus) Subscribe(subscriber Subscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. SubscriberFunc values cannot be compared
// and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber Subscriber) {
	if _, ok := subscriber.(SubscriberFunc); ok {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if _, ok := sub.(SubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to every subscriber.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.Lock()
	subs := make([]Subscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.Unlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
