package storage

import (
	"fmt"
	"sync"

	"eventlog/pkg/models"
)

// MemoryStore keeps every event in insertion order plus a per-group index
// that resolves (group, id) to the most recent event stored under it
type MemoryStore struct {
	logs     []models.LogEvent
	groups   map[string]map[string]models.LogEvent
	order    map[string][]string // group -> ids in first-insertion order
	errorNum uint64
	now      func() float64
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty store. now stamps diagnostic events.
func NewMemoryStore(now func() float64) *MemoryStore {
	return &MemoryStore{
		logs:   make([]models.LogEvent, 0, 64),
		groups: make(map[string]map[string]models.LogEvent),
		order:  make(map[string][]string),
		now:    now,
	}
}

// Append stores an event and returns everything that was stored as a result,
// in order: the event itself, then a diagnostic event if (group, id) was
// already taken. Collisions are never reported as errors.
func (ms *MemoryStore) Append(event models.LogEvent) []models.LogEvent {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored := []models.LogEvent{event}
	if ms.put(event) {
		ms.errorNum++
		diag := models.LogEvent{
			ID:    fmt.Sprintf("%d", ms.errorNum),
			Group: models.DiagnosticGroup,
			Data:  collisionMessage(event),
			Level: models.LevelError,
			Time:  ms.now(),
		}
		// the suffix is fresh, so this cannot collide again
		ms.put(diag)
		stored = append(stored, diag)
	}
	return stored
}

// put appends to the log and upserts the index; it reports a collision.
func (ms *MemoryStore) put(event models.LogEvent) bool {
	ms.logs = append(ms.logs, event)

	group, ok := ms.groups[event.Group]
	if !ok {
		group = make(map[string]models.LogEvent)
		ms.groups[event.Group] = group
	}
	_, collided := group[event.ID]
	if !collided {
		ms.order[event.Group] = append(ms.order[event.Group], event.ID)
	}
	group[event.ID] = event
	return collided
}

func collisionMessage(event models.LogEvent) string {
	if event.Group == "" {
		return fmt.Sprintf("ID `%s` is already used.", event.ID)
	}
	return fmt.Sprintf("ID `%s` is already used in group `%s`.", event.ID, event.Group)
}

// Get resolves a bare id (group "") or a "group:id" key
func (ms *MemoryStore) Get(key string) (models.LogEvent, error) {
	group, id, err := models.ParseKey(key)
	if err != nil {
		return models.LogEvent{}, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	events, ok := ms.groups[group]
	if !ok {
		return models.LogEvent{}, fmt.Errorf("group %q: %w", group, models.ErrNotFound)
	}
	event, ok := events[id]
	if !ok {
		return models.LogEvent{}, fmt.Errorf("event %q: %w", key, models.ErrNotFound)
	}
	return event, nil
}

// Group returns the indexed events of a group in first-insertion order
func (ms *MemoryStore) Group(name string) ([]models.LogEvent, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := ms.order[name]
	if len(ids) == 0 {
		return nil, fmt.Errorf("group %q: %w", name, models.ErrNotFound)
	}
	events := ms.groups[name]
	result := make([]models.LogEvent, 0, len(ids))
	for _, id := range ids {
		result = append(result, events[id])
	}
	return result, nil
}

// Logs returns a copy of the full history
func (ms *MemoryStore) Logs() []models.LogEvent {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.LogEvent, len(ms.logs))
	copy(result, ms.logs)
	return result
}

// Count returns total number of events stored, diagnostics included
func (ms *MemoryStore) Count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.logs)
}

// Clear drops the history and the index. The diagnostic counter keeps
// counting so suffixes stay unique for the life of the store.
func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.logs = make([]models.LogEvent, 0, 64)
	ms.groups = make(map[string]map[string]models.LogEvent)
	ms.order = make(map[string][]string)
}
