// Package pipeline orchestrates a full scan/analyze/clean run: scanner,
// ecosystems registry, cleaners, binanalysis and delete, publishing typed
// progress/completion events along the way. The event bus uses one
// buffered channel per subscriber with a non-blocking publish, so a slow
// or stalled subscriber never blocks the run.
package pipeline

import (
	"sync"
	"time"
)

// EventType identifies the kind of payload an Event carries.
type EventType int

const (
	EventScanStart EventType = iota
	EventScanProgress
	EventScanEnd
	EventProjectFound
	EventCleanStart
	EventCleanItem
	EventCleanEnd
	EventAnalysisComplete
	EventError
)

func (e EventType) String() string {
	switch e {
	case EventScanStart:
		return "scan_start"
	case EventScanProgress:
		return "scan_progress"
	case EventScanEnd:
		return "scan_end"
	case EventProjectFound:
		return "project_found"
	case EventCleanStart:
		return "clean_start"
	case EventCleanItem:
		return "clean_item"
	case EventCleanEnd:
		return "clean_end"
	case EventAnalysisComplete:
		return "analysis_complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a typed event published on the Bus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   interface{}
}

// ScanStartPayload is the payload for EventScanStart.
type ScanStartPayload struct {
	Roots int
}

// ScanProgressPayload is the payload for EventScanProgress.
type ScanProgressPayload struct {
	FilesScanned  int64
	BytesScanned  int64
	ProjectsFound int64
	CurrentPath   string
}

// ScanEndPayload is the payload for EventScanEnd.
type ScanEndPayload struct {
	Duration      time.Duration
	ProjectsFound int
	ErrorCount    int
}

// ProjectFoundPayload is the payload for EventProjectFound.
type ProjectFoundPayload struct {
	Path            string
	Kind            string
	CleanableBytes  int64
}

// CleanStartPayload is the payload for EventCleanStart.
type CleanStartPayload struct {
	ItemCount int
	Method    string
}

// CleanItemPayload is the payload for EventCleanItem.
type CleanItemPayload struct {
	Path  string
	Bytes int64
	Error error
}

// CleanEndPayload is the payload for EventCleanEnd.
type CleanEndPayload struct {
	Duration   time.Duration
	BytesFreed int64
	ItemsDone  int
}

// AnalysisCompletePayload is the payload for EventAnalysisComplete.
type AnalysisCompletePayload struct {
	StaleProjects  int
	GitHealthFlags int
	DuplicateKinds int
}

// ErrorPayload is the payload for EventError.
type ErrorPayload struct {
	Path string
	Err  error
}

// Subscriber handles events published on a Bus.
type Subscriber func(Event)

// Bus is a pub/sub event bus with one buffered channel per subscriber.
// Publish is non-blocking: a subscriber whose buffer is full simply drops
// the event rather than stalling the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers []subscriberEntry
	bufferSize  int
	closed      bool
}

type subscriberEntry struct {
	name string
	ch   chan Event
	done chan struct{}
}

// NewBus creates a Bus with bufferSize slots per subscriber; <= 0 defaults
// to 256.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{bufferSize: bufferSize}
}

// Subscribe registers a named subscriber with its own buffered channel and
// drain goroutine.
func (b *Bus) Subscribe(name string, fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	done := make(chan struct{})
	entry := subscriberEntry{name: name, ch: ch, done: done}

	go func() {
		defer close(done)
		for event := range ch {
			fn(event)
		}
	}()

	b.subscribers = append(b.subscribers, entry)
}

// Publish sends event to every subscriber, stamping Timestamp if unset.
func (b *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subscribers {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// PublishTyped is a convenience wrapper building an Event from a type and
// payload.
func (b *Bus) PublishTyped(eventType EventType, payload interface{}) {
	b.Publish(Event{Type: eventType, Timestamp: time.Now(), Payload: payload})
}

// Close marks the bus closed, closes every subscriber channel, and waits
// for each subscriber's drain goroutine to finish.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	subs := make([]subscriberEntry, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
	}
	for _, sub := range subs {
		<-sub.done
	}
}
