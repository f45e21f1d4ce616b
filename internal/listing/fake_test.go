package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

type item struct {
	ID       string
	Name     string
	Status   string
	Category string
}

func (i item) RecordID() string { return i.ID }

var itemSchema = Schema[item]{
	Search: func(i item) []string { return []string{i.Name, i.ID} },
	Categories: []Category[item]{
		{Name: "status", Value: func(i item) string { return i.Status }, Case: Upper, Values: []string{"PENDING", "CONFIRMED", "PAID", "CANCELLED"}},
		{Name: "category", Value: func(i item) string { return i.Category }, Case: Lower},
	},
}

// fakeStore is an in-memory backend. Hooks override individual calls.
type fakeStore struct {
	mu      sync.Mutex
	records []item
	lists   atomic.Int32
	deletes []string

	listFn   func(ctx context.Context) ([]item, error)
	createFn func(ctx context.Context, payload any) (item, error)
	updateFn func(ctx context.Context, id string, patch any, current item) (item, bool, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeStore) List(ctx context.Context) ([]item, error) {
	f.lists.Add(1)
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]item(nil), f.records...), nil
}

func (f *fakeStore) Create(ctx context.Context, payload any) (item, error) {
	if f.createFn != nil {
		return f.createFn(ctx, payload)
	}
	created, ok := payload.(item)
	if !ok {
		return item{}, errors.New("unexpected payload")
	}
	return created, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, patch any, current item) (item, bool, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, patch, current)
	}
	if status, ok := patch.(string); ok {
		current.Status = status
	}
	return current, true, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	f.mu.Unlock()
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func makeItems(n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = item{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("item %d", i+1), Status: "PENDING"}
	}
	return items
}

// messageErr mimics a server error carrying a message
type messageErr struct{ msg string }

func (e messageErr) Error() string       { return "server: " + e.msg }
func (e messageErr) UserMessage() string { return e.msg }

type silentErr struct{}

func (silentErr) Error() string { return "unauthorized" }
func (silentErr) Silent() bool  { return true }
