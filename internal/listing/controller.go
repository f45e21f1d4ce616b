package listing

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rodstewart/estatectl/internal/logger"
)

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 6

// maxLoadAttempts bounds how often a load refetches because a mutation
// completed while its fetch was in flight
const maxLoadAttempts = 3

// Record is one item of a collection
type Record interface {
	RecordID() string
}

// Store is the remote side of a collection
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload any) (T, error)
	// Update returns the record after the change and whether the response
	// described it; when it did not, the caller must refetch
	Update(ctx context.Context, id string, patch any, current T) (T, bool, error)
	Delete(ctx context.Context, id string) error
}

// Validator checks a payload before it is sent
type Validator interface {
	Validate(payload any) error
}

type options struct {
	name      string
	pageSize  int
	log       *logger.Logger
	validator Validator
	parent    context.Context
}

// Option configures a Controller
type Option func(*options)

// WithName sets the resource name used in messages and logs
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithPageSize sets the number of records per page
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithValidator checks create and update payloads before any request
func WithValidator(v Validator) Option {
	return func(o *options) { o.validator = v }
}

// WithContext bounds the controller's lifetime; cancelling ctx is the same as Close
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.parent = ctx
		}
	}
}

// Controller owns the canonical collection of one resource. It is the only
// writer of that collection: filtering and paging derive views from it and
// mutations change it only after the backend confirms.
type Controller[T Record] struct {
	name      string
	store     Store[T]
	schema    Schema[T]
	validator Validator
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	loads  singleflight.Group

	mu       sync.Mutex
	records  []T
	loaded   bool
	loading  bool
	err      error
	message  string
	filter   FilterState
	page     int
	pageSize int
	closed   bool
	updates  map[string]uint64
	// generation counts confirmed mutations; a fetch started under an
	// older generation is never applied
	generation uint64
	// fetchedAt is the generation the current collection was fetched under
	fetchedAt uint64
}

// New creates an empty controller. Call Load to populate it.
func New[T Record](store Store[T], schema Schema[T], opts ...Option) *Controller[T] {
	o := options{
		name:     "records",
		pageSize: DefaultPageSize,
		log:      logger.Discard(),
		parent:   context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(o.parent)
	return &Controller[T]{
		name:      o.name,
		store:     store,
		schema:    schema,
		validator: o.validator,
		log:       o.log,
		ctx:       ctx,
		cancel:    cancel,
		records:   []T{},
		filter:    FilterState{Selected: map[string]string{}},
		page:      1,
		pageSize:  o.pageSize,
		updates:   map[string]uint64{},
	}
}

// Name returns the resource name
func (c *Controller[T]) Name() string {
	return c.name
}

// Schema returns the filter schema
func (c *Controller[T]) Schema() Schema[T] {
	return c.schema
}

// Load fetches the collection. Calls made while a fetch is pending join it
// instead of starting another, so results never race. A fetch that was
// overtaken by a confirmed mutation is retried before anything is applied.
// The fetch belongs to the controller: ctx only bounds how long this caller
// waits.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	ch := c.loads.DoChan("load", func() (any, error) {
		c.mu.Lock()
		c.loading = true
		c.mu.Unlock()

		for attempt := 1; ; attempt++ {
			c.mu.Lock()
			gen := c.generation
			c.mu.Unlock()

			records, err := c.store.List(c.ctx)
			applied, err := c.finishLoad(records, err, gen, attempt >= maxLoadAttempts)
			if applied {
				return nil, err
			}
			c.log.Debug("collection changed during load, refetching", "resource", c.name, "attempt", attempt)
		}
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh refetches after a mutation whose response could not be applied
// locally. Unlike Load it only returns once the collection was fetched after
// every mutation confirmed before the call.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	want := c.generation
	c.mu.Unlock()

	for attempt := 1; ; attempt++ {
		if err := c.Load(ctx); err != nil {
			return err
		}
		c.mu.Lock()
		fresh := c.fetchedAt >= want
		c.mu.Unlock()
		if fresh || attempt >= maxLoadAttempts {
			return nil
		}
	}
}

// finishLoad applies a fetch started at generation gen. It reports false
// when the result is stale and the caller should fetch again.
func (c *Controller[T]) finishLoad(records []T, err error, gen uint64, last bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true, ErrClosed
	}

	if err == nil && c.generation != gen {
		if !last {
			return false, nil
		}
		// still overtaken: keep the confirmed local state
		c.loading = false
		c.log.Warn("load kept overtaking mutations, keeping local state", "resource", c.name)
		return true, nil
	}
	c.loading = false

	if err != nil {
		if Quiet(err) {
			// cancelled or handled globally: keep what is on screen
			return true, err
		}
		// a failed load shows its error in place of the table, never stale rows
		c.records = []T{}
		c.err = err
		c.message = Describe(err, "Failed to load "+c.name)
		c.page = 1
		c.log.Warn("load failed", "resource", c.name, "error", err)
		return true, err
	}

	if records == nil {
		records = []T{}
	}
	c.records = records
	c.fetchedAt = gen
	c.loaded = true
	c.err = nil
	c.message = ""
	c.clampLocked()
	c.log.Debug("loaded", "resource", c.name, "count", len(records))
	return true, nil
}

// Close cancels in-flight requests and turns every later result into a
// no-op. A closed controller cannot be reused.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.loading = false
	c.mu.Unlock()
	c.cancel()
}

// Closed reports whether Close was called
func (c *Controller[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SetQuery sets the free-text search. A change resets to page 1.
func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter.Query == q {
		return
	}
	c.filter.Query = q
	c.page = 1
}

// SetCategory selects a value for a categorical filter; "" or the "all"
// sentinel clears it. A change resets to page 1.
func (c *Controller[T]) SetCategory(name, value string) error {
	cat, ok := c.schema.Category(name)
	if !ok {
		return fmt.Errorf("%s cannot be filtered by %q", c.name, name)
	}
	normalized := cat.Case.normalize(value)
	if normalized != "" && normalized != cat.Case.All() && len(cat.Values) > 0 {
		valid := false
		for _, v := range cat.Values {
			if cat.Case.normalize(v) == normalized {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid %s %q (valid values: %s)", name, value, strings.Join(cat.Values, ", "))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter.Selected[name] == normalized {
		return nil
	}
	c.filter.Selected[name] = normalized
	c.page = 1
	return nil
}

// ClearFilters removes the query and every selection and resets to page 1
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = FilterState{Selected: map[string]string{}}
	c.page = 1
}

// Filter returns a copy of the filter state
func (c *Controller[T]) Filter() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterCopyLocked()
}

func (c *Controller[T]) filterCopyLocked() FilterState {
	selected := make(map[string]string, len(c.filter.Selected))
	for k, v := range c.filter.Selected {
		selected[k] = v
	}
	return FilterState{Query: c.filter.Query, Selected: selected}
}

// SetPage moves to page n, clamped into range, and returns the page shown
func (c *Controller[T]) SetPage(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = n
	c.clampLocked()
	return c.page
}

// NextPage moves forward one page if possible
func (c *Controller[T]) NextPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page++
	c.clampLocked()
	return c.page
}

// PrevPage moves back one page if possible
func (c *Controller[T]) PrevPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page--
	c.clampLocked()
	return c.page
}

// SetPageSize changes the page size and clamps the current page
func (c *Controller[T]) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = n
	c.clampLocked()
}

// clampLocked keeps 1 <= page <= totalPages for the current filters
func (c *Controller[T]) clampLocked() {
	filtered := c.schema.Apply(c.records, c.filter)
	c.page = Clamp(c.page, TotalPages(len(filtered), c.pageSize))
}

// View is a render-ready snapshot of the controller
type View[T any] struct {
	Page    Page[T]
	Total   int
	Filter  FilterState
	Loading bool
	Loaded  bool
	Err     error
	Message string
}

// Empty reports whether the current filters match nothing
func (v View[T]) Empty() bool {
	return v.Page.Filtered == 0
}

// View filters and slices the collection, clamping the page before
// returning so a shrunken result never renders an empty page
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.schema.Apply(c.records, c.filter)
	totalPages := TotalPages(len(filtered), c.pageSize)
	c.page = Clamp(c.page, totalPages)
	items, _ := Slice(filtered, c.page, c.pageSize)

	return View[T]{
		Page: Page[T]{
			Items:      items,
			Number:     c.page,
			Size:       c.pageSize,
			TotalPages: totalPages,
			Filtered:   len(filtered),
		},
		Total:   len(c.records),
		Filter:  c.filterCopyLocked(),
		Loading: c.loading,
		Loaded:  c.loaded,
		Err:     c.err,
		Message: c.message,
	}
}

// Filtered returns every record matching the current filters
func (c *Controller[T]) Filtered() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schema.Apply(c.records, c.filter)
}

// Records returns a copy of the whole collection in fetch order
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.records)
}

// Find returns the record with id
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(id)
}

func (c *Controller[T]) findLocked(id string) (T, bool) {
	for _, r := range c.records {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether a fetch is in flight
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
