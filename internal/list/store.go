package list

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/pantrylabs/trolley/internal/model"
)

// Persister durably stores the serialized item collection. A nil Persister
// disables persistence entirely.
type Persister interface {
	Load() ([]model.Item, error)
	Save(items []model.Item) error
	Clear() error
}

// Store is the in-memory ordered item collection. All operations are
// synchronous and total: mutations referencing a missing id do nothing, and
// persistence failures are logged rather than surfaced.
type Store struct {
	mu        sync.Mutex
	items     []model.Item
	persister Persister
	logger    *slog.Logger
}

// NewStore creates a Store, loading any previously persisted collection.
// A load failure starts the list empty rather than failing startup.
func NewStore(p Persister, logger *slog.Logger) *Store {
	s := &Store{persister: p, logger: logger}
	if p != nil {
		items, err := p.Load()
		if err != nil {
			logger.Warn("load persisted list, starting empty", "error", err)
		} else {
			s.items = items
		}
	}
	return s
}

// ParseQuantity normalizes free-text quantity input to a positive integer.
// Anything non-numeric or below 1 becomes 1.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Add appends an item to the collection. A non-positive quantity is
// normalized to 1. The caller is responsible for id and CreatedAt.
func (s *Store) Add(item model.Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.persist()
}

// Edit merges patch into the item matching id. Unset patch fields keep their
// prior values; a present quantity is renormalized. Missing id is a no-op.
// ID and CreatedAt never change.
func (s *Store) Edit(id string, patch model.ItemPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		item := &s.items[i]
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Quantity != nil {
			item.Quantity = ParseQuantity(*patch.Quantity)
		}
		if patch.Category != nil {
			item.Category = *patch.Category
		}
		if patch.Notes != nil {
			item.Notes = *patch.Notes
		}
		if patch.AttachmentURL != nil {
			item.AttachmentURL = *patch.AttachmentURL
		}
		if patch.AttachmentName != nil {
			item.AttachmentName = *patch.AttachmentName
		}
		s.persist()
		return
	}
}

// Remove deletes the item matching id. Removing an absent id is a no-op,
// so Remove is idempotent.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

// Clear empties the collection and drops the persisted blob.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if s.persister != nil {
		if err := s.persister.Clear(); err != nil {
			s.logger.Error("clear persisted list", "error", err)
		}
	}
}

// Get returns the item matching id, if present.
func (s *Store) Get(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Item{}, false
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items in the collection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persist writes the current collection. Caller holds the lock.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.items); err != nil {
		s.logger.Error("persist list", "error", err)
	}
}
