package event

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tonefold/modkit/worklet"
)

// Event is one scheduled sample trigger on the tick timeline.
type Event struct {
	ID       string
	Tick     int64
	Duration int64 // ticks, 0 means play to completion
	Payload  worklet.TriggerPayload
}

// changeKind discriminates entries on the undo and redo stacks.
type changeKind int

const (
	changeInsert changeKind = iota
	changeRemove
	changeClear
)

// change records one reversible mutation. For clear the whole prior event
// list is snapshotted.
type change struct {
	kind     changeKind
	event    Event
	snapshot []Event
}

// Store holds trigger events ordered by tick. It is safe for concurrent use
// from control-context goroutines; the audio context receives copies, never
// references into the store.
type Store struct {
	mu     sync.Mutex
	events []Event
	nextID int64
	undo   []change
	redo   []change
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// TriggerSample records a trigger at the given tick and returns its event id.
func (s *Store) TriggerSample(tick int64, payload worklet.TriggerPayload, duration int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ev := Event{
		ID:       fmt.Sprintf("evt-%d", s.nextID),
		Tick:     tick,
		Duration: duration,
		Payload:  payload,
	}
	s.insert(ev)
	s.push(change{kind: changeInsert, event: ev})
	return ev.ID
}

// insert places ev after any events sharing its tick, keeping the list in
// non-decreasing tick order with stable arrival order within a tick.
func (s *Store) insert(ev Event) {
	i := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Tick > ev.Tick
	})
	s.events = append(s.events, Event{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = ev
}

// EventsInRange returns copies of all events with start <= tick < end, in
// tick order.
func (s *Store) EventsInRange(start, end int64) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Tick >= start
	})
	hi := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Tick >= end
	})

	out := make([]Event, hi-lo)
	copy(out, s.events[lo:hi])
	return out
}

// Remove deletes the event with the given id. Removing an unknown id is a
// no-op and reports false.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			s.push(change{kind: changeRemove, event: ev})
			return true
		}
	}
	return false
}

// Clear removes every event. The previous contents remain reachable
// through Undo.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) == 0 {
		return
	}
	snapshot := make([]Event, len(s.events))
	copy(snapshot, s.events)
	s.events = s.events[:0]
	s.push(change{kind: changeClear, snapshot: snapshot})
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// push records a completed mutation and invalidates the redo stack.
func (s *Store) push(c change) {
	s.undo = append(s.undo, c)
	s.redo = s.redo[:0]
}

// Undo reverses the most recent mutation. It reports false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return false
	}
	c := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	switch c.kind {
	case changeInsert:
		s.removeByID(c.event.ID)
	case changeRemove:
		s.insert(c.event)
	case changeClear:
		s.events = append(s.events[:0], c.snapshot...)
	}
	s.redo = append(s.redo, c)
	return true
}

// Redo re-applies the most recently undone mutation. It reports false when
// there is nothing to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return false
	}
	c := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	switch c.kind {
	case changeInsert:
		s.insert(c.event)
	case changeRemove:
		s.removeByID(c.event.ID)
	case changeClear:
		s.events = s.events[:0]
	}
	s.undo = append(s.undo, c)
	return true
}

func (s *Store) removeByID(id string) {
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return
		}
	}
}
