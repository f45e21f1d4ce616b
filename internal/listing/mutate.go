package listing

import (
	"context"
	"fmt"
)

// FollowUp is a secondary call made after a successful delete, such as
// removing a property's uploaded images. Its failure never undoes the delete.
type FollowUp struct {
	Name string
	Run  func(ctx context.Context, id string) error
}

// scope derives a request context that is also cancelled by Close
func (c *Controller[T]) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller[T]) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// confirmed records that the backend accepted a mutation, so any fetch
// already in flight is stale
func (c *Controller[T]) confirmed() {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()
}

func (c *Controller[T]) validate(payload any) error {
	if c.validator == nil {
		return nil
	}
	return c.validator.Validate(payload)
}

func (c *Controller[T]) logFailure(action, id string, err error) {
	if Quiet(err) {
		c.log.Debug(action+" abandoned", "resource", c.name, "id", id, "error", err)
		return
	}
	c.log.Warn(action+" failed", "resource", c.name, "id", id, "error", err)
}

// Delete removes the record on the backend and then locally. On failure the
// collection is unchanged. Follow-ups run after the local removal and their
// errors are only logged.
func (c *Controller[T]) Delete(ctx context.Context, id string, followUps ...FollowUp) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	ctx, done := c.scope(ctx)
	defer done()

	if err := c.store.Delete(ctx, id); err != nil {
		c.logFailure("delete", id, err)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	c.records = removeRecord(c.records, id)
	delete(c.updates, id)
	c.clampLocked()
	c.mu.Unlock()
	c.log.Debug("deleted", "resource", c.name, "id", id)

	for _, f := range followUps {
		if err := f.Run(ctx, id); err != nil {
			c.logFailure(f.Name, id, err)
		}
	}
	return nil
}

// Update validates and sends patch, then replaces the record with the
// merged response. When the response does not describe the record the
// collection is refetched instead. If another update for the same record
// was issued while this one was in flight, this response is dropped.
func (c *Controller[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	var zero T
	if err := c.validate(patch); err != nil {
		return zero, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	current, ok := c.findLocked(id)
	if !ok {
		c.mu.Unlock()
		return zero, fmt.Errorf("%s %s: %w", c.name, id, ErrNotLoaded)
	}
	c.updates[id]++
	seq := c.updates[id]
	c.mu.Unlock()

	sctx, done := c.scope(ctx)
	defer done()

	updated, informative, err := c.store.Update(sctx, id, patch, current)
	if err != nil {
		c.logFailure("update", id, err)
		return zero, err
	}

	if !informative {
		c.confirmed()
		if err := c.Refresh(ctx); err != nil {
			c.logFailure("refresh after update", id, err)
		}
		rec, _ := c.Find(id)
		return rec, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return updated, nil
	}
	c.generation++
	if c.updates[id] != seq {
		c.log.Debug("dropping superseded update", "resource", c.name, "id", id)
		latest, _ := c.findLocked(id)
		return latest, nil
	}
	for i, r := range c.records {
		if r.RecordID() == id {
			c.records[i] = updated
			break
		}
	}
	c.clampLocked()
	return updated, nil
}

// Create validates and posts payload and prepends the new record. A
// response without an id triggers a refetch.
func (c *Controller[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	if err := c.validate(payload); err != nil {
		return zero, err
	}
	if err := c.checkOpen(); err != nil {
		return zero, err
	}

	sctx, done := c.scope(ctx)
	defer done()

	created, err := c.store.Create(sctx, payload)
	if err != nil {
		c.logFailure("create", "", err)
		return zero, err
	}

	id := created.RecordID()
	if id == "" {
		c.confirmed()
		if err := c.Refresh(ctx); err != nil {
			c.logFailure("refresh after create", "", err)
		}
		return created, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return created, nil
	}
	c.generation++
	c.records = removeRecord(c.records, id)
	c.records = append([]T{created}, c.records...)
	c.clampLocked()
	return created, nil
}

func removeRecord[T Record](records []T, id string) []T {
	out := records[:0:0]
	for _, r := range records {
		if r.RecordID() != id {
			out = append(out, r)
		}
	}
	return out
}
