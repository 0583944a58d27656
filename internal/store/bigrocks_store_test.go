package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrix-planner/internal/model"
)

func newRocksStore(t *testing.T, p BigRockPersister) *BigRocksStore {
	t.Helper()
	s, err := NewBigRocksStore(context.Background(), p)
	require.NoError(t, err)
	return s
}

func TestBigRocksStoreStartsEmpty(t *testing.T) {
	s := newRocksStore(t, &memoryRocks{})
	assert.Equal(t, model.BigRocks{}, s.Snapshot())
	assert.Equal(t, []model.RoleRock{}, s.All())
}

func TestBigRocksStoreAdd(t *testing.T) {
	p := &memoryRocks{}
	s := newRocksStore(t, p)

	s.Add("work", "First")
	s.Add("work", "Second")
	s.Add("health", "Gym")

	assert.Equal(t, model.BigRocks{"work": {"First", "Second"}, "health": {"Gym"}}, s.Snapshot())
	assert.Equal(t, s.Snapshot(), p.saved[len(p.saved)-1])
}

func TestBigRocksStoreRemove(t *testing.T) {
	s := newRocksStore(t, nil)
	s.Add("work", "Task 1")
	s.Add("work", "Task 2")
	s.Add("work", "Task 3")

	require.True(t, s.Remove("work", 1))
	assert.Equal(t, []string{"Task 1", "Task 3"}, s.Snapshot()["work"])
}

func TestBigRocksStoreRemoveLastPrunesRole(t *testing.T) {
	s := newRocksStore(t, nil)
	s.Add("work", "X")

	require.True(t, s.Remove("work", 0))
	_, ok := s.Snapshot()["work"]
	assert.False(t, ok)
	assert.Empty(t, s.Roles())
}

func TestBigRocksStoreRemoveMissing(t *testing.T) {
	p := &memoryRocks{}
	s := newRocksStore(t, p)
	s.Add("work", "X")
	saves := len(p.saved)

	assert.False(t, s.Remove("nonexistent", 0))
	assert.False(t, s.Remove("work", 3))
	assert.False(t, s.Remove("work", -1))
	assert.Equal(t, model.BigRocks{"work": {"X"}}, s.Snapshot())
	assert.Len(t, p.saved, saves)
}

func TestBigRocksStoreAllSkipsEmpty(t *testing.T) {
	s := newRocksStore(t, nil)
	s.Update(model.BigRocks{
		"work":     {"Valid task", "", "Another valid task"},
		"personal": {"", "Personal task"},
		"empty":    {},
	})

	assert.Equal(t, []model.RoleRock{
		{Role: "personal", Rock: "Personal task"},
		{Role: "work", Rock: "Valid task"},
		{Role: "work", Rock: "Another valid task"},
	}, s.All())
}

func TestBigRocksStoreUpdateCopiesInput(t *testing.T) {
	s := newRocksStore(t, nil)
	in := model.BigRocks{"work": {"A"}}
	s.Update(in)
	in["work"][0] = "mutated"

	assert.Equal(t, "A", s.Snapshot()["work"][0])
}

func TestBigRocksStoreLoadsPersisted(t *testing.T) {
	s := newRocksStore(t, &memoryRocks{initial: model.BigRocks{"family": {"Trip"}}})
	assert.Equal(t, []model.RoleRock{{Role: "family", Rock: "Trip"}}, s.All())
}

func TestBigRocksStoreSubscribe(t *testing.T) {
	s := newRocksStore(t, nil)
	var sizes []int
	s.Subscribe(func(r model.BigRocks) { sizes = append(sizes, len(r)) })

	s.Add("work", "A")
	s.Add("home", "B")
	s.Remove("work", 0)
	s.Remove("work", 0)

	assert.Equal(t, []int{1, 2, 1}, sizes)
}

func TestBigRocksStoreConcurrentAddsPersistLatest(t *testing.T) {
	p := &memoryRocks{}
	s := newRocksStore(t, p)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(fmt.Sprintf("role-%d", i), "rock")
		}(i)
	}
	wg.Wait()

	require.Len(t, p.saved, 10)
	assert.Len(t, s.Snapshot(), 10)
	assert.Equal(t, s.Snapshot(), p.saved[len(p.saved)-1])
}
