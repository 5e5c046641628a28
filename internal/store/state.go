package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pantrylabs/trolley/internal/model"
)

// ShoppingListKey is the well-known app_state key holding the serialized
// item collection.
const ShoppingListKey = "shopping_list"

// StateStore reads and writes opaque blobs in the app_state table.
type StateStore struct {
	db *sql.DB
}

func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// Get returns the blob stored under key, or "" if the key is absent.
func (s *StateStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state %q: %w", key, err)
	}
	return value, nil
}

func (s *StateStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

func (s *StateStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

// ListState persists the item collection as a JSON blob under ShoppingListKey.
// It implements list.Persister.
type ListState struct {
	state *StateStore
}

func NewListState(state *StateStore) *ListState {
	return &ListState{state: state}
}

func (l *ListState) Load() ([]model.Item, error) {
	blob, err := l.state.Get(ShoppingListKey)
	if err != nil {
		return nil, err
	}
	if blob == "" {
		return nil, nil
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		return nil, fmt.Errorf("decode shopping list blob: %w", err)
	}
	return items, nil
}

func (l *ListState) Save(items []model.Item) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode shopping list: %w", err)
	}
	return l.state.Set(ShoppingListKey, string(blob))
}

func (l *ListState) Clear() error {
	return l.state.Delete(ShoppingListKey)
}
