// Package memory is an in-process implementation of every repository, used by the
// test suites and by STORE=memory deployments. It mirrors the Postgres schema's
// cascades and gives ExecTx all-or-nothing semantics through snapshots.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ktmouk/minute-sub000/internal/domain/models"
	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// Store holds all tables behind a single lock
type Store struct {
	mu   sync.RWMutex
	data *tables
}

type tables struct {
	folders     map[string]models.Folder
	hierarchies map[string]models.FolderHierarchy
	categories  map[string]models.Category
	charts      map[string]models.Chart
	tasks       map[string]models.Task
	entries     map[string]models.TimeEntry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newTables()}
}

func newTables() *tables {
	return &tables{
		folders:     make(map[string]models.Folder),
		hierarchies: make(map[string]models.FolderHierarchy),
		categories:  make(map[string]models.Category),
		charts:      make(map[string]models.Chart),
		tasks:       make(map[string]models.Task),
		entries:     make(map[string]models.TimeEntry),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.folders {
		v.ParentID = copyID(v.ParentID)
		c.folders[k] = v
	}
	for k, v := range t.hierarchies {
		v.AncestorID = copyID(v.AncestorID)
		c.hierarchies[k] = v
	}
	for k, v := range t.categories {
		v.FolderIDs = append([]string(nil), v.FolderIDs...)
		c.categories[k] = v
	}
	for k, v := range t.charts {
		v.FolderIDs = append([]string(nil), v.FolderIDs...)
		v.CategoryIDs = append([]string(nil), v.CategoryIDs...)
		c.charts[k] = v
	}
	for k, v := range t.tasks {
		c.tasks[k] = v
	}
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}

// txKey marks a context running inside ExecTx of a given store
type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read runs fn under the read lock, or directly when ctx already owns the store
func (s *Store) read(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write runs fn under the write lock, or directly when ctx already owns the store.
// Outside a transaction a failing fn leaves the tables untouched.
func (s *Store) write(ctx context.Context, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(s.data); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// TransactionManager serialises transactions on the store lock and restores a
// snapshot when the function fails
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) (err error) {
	s := tm.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return fn(context.WithValue(ctx, txKey{}, s))
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
