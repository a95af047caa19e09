// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"taskcli/internal/service"
)

// FakeStore is an in-memory implementation of service.Store for testing.
type FakeStore struct {
	mu    sync.RWMutex
	tasks []service.Task

	// Saves counts successful Save calls.
	Saves int

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// NewFakeStore creates a FakeStore holding a copy of tasks.
func NewFakeStore(tasks ...service.Task) *FakeStore {
	return &FakeStore{tasks: append([]service.Task{}, tasks...)}
}

// Tasks returns a copy of the stored collection.
func (f *FakeStore) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task{}, f.tasks...)
}

// Load implements service.Store.
func (f *FakeStore) Load(ctx context.Context) ([]service.Task, error) {
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task{}, f.tasks...), nil
}

// Save implements service.Store.
func (f *FakeStore) Save(ctx context.Context, tasks []service.Task) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append([]service.Task{}, tasks...)
	f.Saves++
	return nil
}

// SequenceIDs returns an id generator that yields ids in order and then
// repeats the last one.
func SequenceIDs(ids ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}
