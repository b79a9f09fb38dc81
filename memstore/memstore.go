// Package memstore is a process-local record store.
package memstore

import (
	"context"
	"sync"
	"time"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

type Memory struct {
	mu   sync.Mutex
	refs refs.Resolver
	now  func() time.Time

	employees *collection[models.EmployeeFields]
	tools     *collection[models.ToolFields]
	locations *collection[models.LocationFields]
	checkouts *collection[models.CheckoutFields]
	returns   *collection[models.ReturnFields]
}

func New(resolver refs.Resolver) *Memory {
	m := &Memory{refs: resolver, now: time.Now}
	m.employees = newCollection[models.EmployeeFields](m)
	m.tools = newCollection[models.ToolFields](m)
	m.locations = newCollection[models.LocationFields](m)
	m.checkouts = newCollection[models.CheckoutFields](m)
	m.returns = newCollection[models.ReturnFields](m)
	return m
}

// Store exposes m through the store boundary, including exclusive checkouts.
func (m *Memory) Store() *store.Store {
	return &store.Store{
		Employees: m.employees,
		Tools:     m.tools,
		Locations: m.locations,
		Checkouts: m.checkouts,
		Returns:   m.returns,
		Exclusive: m,
	}
}

// Seed inserts the records of snap as they are, ids and timestamps included.
func (m *Memory) Seed(snap *store.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees.putAll(snap.Employees)
	m.tools.putAll(snap.Tools)
	m.locations.putAll(snap.Locations)
	m.checkouts.putAll(snap.Checkouts)
	m.returns.putAll(snap.Returns)
}

func (m *Memory) CreateCheckoutExclusive(ctx context.Context, toolRef string, fields models.CheckoutFields) (*models.Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	toolID, ok := m.refs.ID(&toolRef, refs.KindTool)
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := m.tools.rows[toolID]; !ok {
		return nil, store.ErrNotFound
	}
	returned := m.returnedCheckouts()
	for _, id := range m.checkouts.order {
		c := m.checkouts.rows[id]
		if returned[c.ID] {
			continue
		}
		if tid, ok := m.refs.ID(c.Fields.Tool, refs.KindTool); ok && tid == toolID {
			return nil, store.ErrToolBusy
		}
	}
	fields.Tool = &toolRef
	r := m.checkouts.insert(fields)
	return &r, nil
}

func (m *Memory) CreateReturnExclusive(ctx context.Context, checkoutRef string, fields models.ReturnFields) (*models.Return, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	checkoutID, ok := m.refs.ID(&checkoutRef, refs.KindCheckout)
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := m.checkouts.rows[checkoutID]; !ok {
		return nil, store.ErrNotFound
	}
	if m.returnedCheckouts()[checkoutID] {
		return nil, store.ErrCheckoutClosed
	}
	fields.Checkout = &checkoutRef
	r := m.returns.insert(fields)
	return &r, nil
}

func (m *Memory) returnedCheckouts() map[string]bool {
	out := make(map[string]bool, len(m.returns.rows))
	for _, r := range m.returns.rows {
		if id, ok := m.refs.ID(r.Fields.Checkout, refs.KindCheckout); ok {
			out[id] = true
		}
	}
	return out
}

type collection[F models.Fields] struct {
	m     *Memory
	rows  map[string]models.Record[F]
	order []string
}

func newCollection[F models.Fields](m *Memory) *collection[F] {
	return &collection[F]{m: m, rows: map[string]models.Record[F]{}}
}

func (c *collection[F]) putAll(rs []models.Record[F]) {
	for _, r := range rs {
		if r.ID == "" {
			r.ID = store.NewRecordID()
		}
		if _, ok := c.rows[r.ID]; !ok {
			c.order = append(c.order, r.ID)
		}
		r.Fields = models.Clone(r.Fields)
		c.rows[r.ID] = r
	}
}

func (c *collection[F]) insert(fields F) models.Record[F] {
	r := models.Record[F]{
		ID:        store.NewRecordID(),
		CreatedAt: models.NewTimestamp(c.m.now()),
		Fields:    models.Clone(fields),
	}
	c.rows[r.ID] = r
	c.order = append(c.order, r.ID)
	return detached(r)
}

// detached copies r so callers cannot reach stored values through its pointers.
func detached[F models.Fields](r models.Record[F]) models.Record[F] {
	r.Fields = models.Clone(r.Fields)
	if r.UpdatedAt != nil {
		ts := *r.UpdatedAt
		r.UpdatedAt = &ts
	}
	return r
}

func (c *collection[F]) List(ctx context.Context) ([]models.Record[F], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	out := make([]models.Record[F], 0, len(c.order))
	for _, id := range c.order {
		out = append(out, detached(c.rows[id]))
	}
	return out, nil
}

func (c *collection[F]) Get(ctx context.Context, id string) (*models.Record[F], error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	r, ok := c.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r = detached(r)
	return &r, nil
}

func (c *collection[F]) Create(ctx context.Context, fields F) (*models.Record[F], error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	r := c.insert(fields)
	return &r, nil
}

func (c *collection[F]) Update(ctx context.Context, id string, patch F) (*models.Record[F], error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	r, ok := c.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	models.Merge(&r.Fields, patch)
	now := models.NewTimestamp(c.m.now())
	r.UpdatedAt = &now
	c.rows[id] = r
	r = detached(r)
	return &r, nil
}

func (c *collection[F]) Delete(ctx context.Context, id string) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if _, ok := c.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.rows, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetClock replaces the clock stamping createdat/updatedat.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}
