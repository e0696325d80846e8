package httpapi

import (
	"sync"
	"time"
)

const defaultEventsBuffer = 200

// eventLog keeps the most recent events and fans them out to stream
// subscribers. Slow subscribers miss events rather than block publishers.
type eventLog struct {
	mu     sync.RWMutex
	size   int
	nextID int64
	events []Event

	nextSubID int
	subs      map[int]chan Event
}

func newEventLog(size int) *eventLog {
	if size < 1 {
		size = defaultEventsBuffer
	}
	return &eventLog{size: size, subs: make(map[int]chan Event)}
}

// publish assigns the next id and timestamp to ev and stores it.
func (l *eventLog) publish(ev Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	ev.ID = l.nextID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	l.events = append(l.events, ev)
	if len(l.events) > l.size {
		l.events = l.events[len(l.events)-l.size:]
	}

	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// recent returns a copy of the buffered events, oldest first.
func (l *eventLog) recent() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *eventLog) subscribe(ch chan Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSubID++
	id := l.nextSubID
	l.subs[id] = ch
	return id
}

func (l *eventLog) unsubscribe(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs, id)
}
