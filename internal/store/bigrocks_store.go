package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"matrix-planner/internal/model"
)

// BigRockPersister is the storage binding behind a BigRocksStore.
type BigRockPersister interface {
	LoadBigRocks(ctx context.Context) (model.BigRocks, error)
	SaveBigRocks(ctx context.Context, rocks model.BigRocks) error
}

// BigRocksStore owns the role to priorities mapping.
type BigRocksStore struct {
	persister BigRockPersister
	log       *zap.Logger

	commitMu sync.Mutex

	mu    sync.Mutex
	rocks model.BigRocks

	changes notifier[model.BigRocks]
}

func NewBigRocksStore(ctx context.Context, persister BigRockPersister, opts ...Option) (*BigRocksStore, error) {
	o := buildOptions(opts)
	s := &BigRocksStore{
		persister: persister,
		log:       o.log.Named("bigrocks"),
		rocks:     model.BigRocks{},
	}
	if persister == nil {
		return s, nil
	}
	rocks, err := persister.LoadBigRocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load big rocks: %w", err)
	}
	if rocks != nil {
		s.rocks = rocks.Clone()
	}
	return s, nil
}

// Snapshot returns a deep copy of the mapping.
func (s *BigRocksStore) Snapshot() model.BigRocks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rocks.Clone()
}

func (s *BigRocksStore) Subscribe(fn func(model.BigRocks)) (unsubscribe func()) {
	return s.changes.subscribe(fn)
}

// Roles lists roles in sorted order.
func (s *BigRocksStore) Roles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedRoles(s.rocks)
}

// All flattens the mapping by role, then position, skipping empty entries.
func (s *BigRocksStore) All() []model.RoleRock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.RoleRock{}
	for _, role := range sortedRoles(s.rocks) {
		for _, rock := range s.rocks[role] {
			if rock == "" {
				continue
			}
			out = append(out, model.RoleRock{Role: role, Rock: rock})
		}
	}
	return out
}

// Update replaces the whole mapping.
func (s *BigRocksStore) Update(rocks model.BigRocks) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if rocks == nil {
		rocks = model.BigRocks{}
	}
	s.rocks = rocks.Clone()
	snapshot := s.rocks.Clone()
	s.mu.Unlock()

	s.log.Info("big rocks replaced", zap.Int("roles", len(snapshot)))
	s.commit(snapshot)
}

// Add appends rock to role, creating the role if needed.
func (s *BigRocksStore) Add(role, rock string) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	s.rocks[role] = append(s.rocks[role], rock)
	snapshot := s.rocks.Clone()
	s.mu.Unlock()

	s.log.Info("big rock added", zap.String("role", role))
	s.commit(snapshot)
}

// Remove deletes the rock at index; an emptied role is dropped.
// It reports false when role or index does not exist.
func (s *BigRocksStore) Remove(role string, index int) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	rocks, ok := s.rocks[role]
	if !ok || index < 0 || index >= len(rocks) {
		s.mu.Unlock()
		return false
	}
	rocks = append(rocks[:index:index], rocks[index+1:]...)
	if len(rocks) == 0 {
		delete(s.rocks, role)
	} else {
		s.rocks[role] = rocks
	}
	snapshot := s.rocks.Clone()
	s.mu.Unlock()

	s.log.Info("big rock removed", zap.String("role", role), zap.Int("index", index))
	s.commit(snapshot)
	return true
}

// commit saves and publishes snapshot under commitMu.
func (s *BigRocksStore) commit(snapshot model.BigRocks) {
	if s.persister != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err := s.persister.SaveBigRocks(ctx, snapshot)
		cancel()
		if err != nil {
			s.log.Error("persist big rocks", zap.Error(err))
		}
	}
	s.changes.notify(snapshot)
}

func sortedRoles(rocks model.BigRocks) []string {
	roles := make([]string, 0, len(rocks))
	for role := range rocks {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
