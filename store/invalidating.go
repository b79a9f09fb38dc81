package store

import (
	"context"

	"werkzeugverwaltung/models"
)

// Invalidating wraps every collection of s so that onChange runs after each
// successful mutation. Reads pass through untouched.
func Invalidating(s *Store, onChange func(ctx context.Context)) *Store {
	out := &Store{
		Employees: invalidating[models.EmployeeFields]{s.Employees, onChange},
		Tools:     invalidating[models.ToolFields]{s.Tools, onChange},
		Locations: invalidating[models.LocationFields]{s.Locations, onChange},
		Checkouts: invalidating[models.CheckoutFields]{s.Checkouts, onChange},
		Returns:   invalidating[models.ReturnFields]{s.Returns, onChange},
	}
	if s.Exclusive != nil {
		out.Exclusive = invalidatingExclusive{s.Exclusive, onChange}
	}
	return out
}

type invalidating[F models.Fields] struct {
	Collection[F]
	onChange func(ctx context.Context)
}

func (c invalidating[F]) Create(ctx context.Context, fields F) (*models.Record[F], error) {
	r, err := c.Collection.Create(ctx, fields)
	if err == nil {
		c.onChange(ctx)
	}
	return r, err
}

func (c invalidating[F]) Update(ctx context.Context, id string, patch F) (*models.Record[F], error) {
	r, err := c.Collection.Update(ctx, id, patch)
	if err == nil {
		c.onChange(ctx)
	}
	return r, err
}

func (c invalidating[F]) Delete(ctx context.Context, id string) error {
	err := c.Collection.Delete(ctx, id)
	if err == nil {
		c.onChange(ctx)
	}
	return err
}

type invalidatingExclusive struct {
	ExclusiveCheckouts
	onChange func(ctx context.Context)
}

func (e invalidatingExclusive) CreateCheckoutExclusive(ctx context.Context, toolRef string, fields models.CheckoutFields) (*models.Checkout, error) {
	r, err := e.ExclusiveCheckouts.CreateCheckoutExclusive(ctx, toolRef, fields)
	if err == nil {
		e.onChange(ctx)
	}
	return r, err
}

func (e invalidatingExclusive) CreateReturnExclusive(ctx context.Context, checkoutRef string, fields models.ReturnFields) (*models.Return, error) {
	r, err := e.ExclusiveCheckouts.CreateReturnExclusive(ctx, checkoutRef, fields)
	if err == nil {
		e.onChange(ctx)
	}
	return r, err
}
