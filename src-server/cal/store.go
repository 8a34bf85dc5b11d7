package cal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Persistence is the durable side of the store: one opaque blob
// holding the serialized event collection. The store writes the
// whole collection on every mutation.
type Persistence interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store owns the durable event collection. Mutations apply to
// memory first and then persist synchronously; when the durable
// write fails the in-memory state stands and the caller gets a
// *PersistenceError (retry with Flush).
type Store struct {
	mu      sync.Mutex
	events  []Event
	persist Persistence
}

// NewStore loads whatever the persistence layer has under its key;
// a missing or empty blob means a fresh, empty collection.
func NewStore(ctx context.Context, persist Persistence) (*Store, error) {
	if persist == nil {
		return nil, fmt.Errorf("NewStore: persistence is nil")
	}
	data, err := persist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewStore: can't load events: %w", err)
	}
	s := &Store{persist: persist}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.events); err != nil {
			return nil, fmt.Errorf("NewStore: can't decode events: %w", err)
		}
	}
	return s, nil
}

// Patch mutates a stored event in place; nil fields are left alone.
type Patch struct {
	Title       *string        `json:"title"`
	Date        *string        `json:"date"`
	Time        *string        `json:"time"`
	Recurring   *RecurringType `json:"recurring"`
	CustomDates *[]string      `json:"customDates"`
}

// Create appends a whole expansion batch.
func (s *Store) Create(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return s.persistLocked(ctx)
}

// Update applies a patch to the event with the given id.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	ev := &s.events[idx]
	if patch.Title != nil {
		ev.Title = *patch.Title
	}
	if patch.Date != nil {
		day, err := ParseDate(*patch.Date)
		if err != nil {
			return fmt.Errorf("Update: %w", err)
		}
		ev.Date = day.Format(DateLayout)
	}
	if patch.Time != nil {
		if *patch.Time == "" {
			ev.Time = ""
		} else {
			canonical, err := CanonicalTime(*patch.Time)
			if err != nil {
				return err
			}
			ev.Time = canonical
		}
	}
	if patch.Recurring != nil {
		ev.Recurring = *patch.Recurring
	}
	if patch.CustomDates != nil {
		ev.CustomDates = *patch.CustomDates
	}
	return s.persistLocked(ctx)
}

// Delete removes by id. Deleting an unknown id is a no-op, not an
// error; the collection is only persisted when something changed.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}
	s.events = append(s.events[:idx], s.events[idx+1:]...)
	return s.persistLocked(ctx)
}

// Duplicate clones an event under a fresh id.
func (s *Store) Duplicate(ctx context.Context, id string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Event{}, ErrNotFound
	}
	clone := s.events[idx]
	clone.ID = uuid.NewString()
	clone.CustomDates = append([]string(nil), clone.CustomDates...)
	s.events = append(s.events, clone)
	if err := s.persistLocked(ctx); err != nil {
		return clone, err
	}
	return clone, nil
}

// List returns a copy of the collection. Order is insertion order
// but carries no meaning; consumers sort explicitly.
func (s *Store) List() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Flush retries the durable write without changing memory, for
// callers that got a *PersistenceError.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) error {
	events := s.events
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if err := s.persist.Save(ctx, data); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}
