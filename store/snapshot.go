package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"werkzeugverwaltung/models"
)

// Snapshot is the full content of the store read in one go.
type Snapshot struct {
	Employees []models.Employee        `json:"employees"`
	Tools     []models.Tool            `json:"tools"`
	Locations []models.StorageLocation `json:"locations"`
	Checkouts []models.Checkout        `json:"checkouts"`
	Returns   []models.Return          `json:"returns"`
	FetchedAt time.Time                `json:"fetchedAt"`
}

// FetchSnapshot lists all five kinds concurrently. It returns a snapshot only
// when every list call succeeded.
func FetchSnapshot(ctx context.Context, s *Store) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Employees, err = list(ctx, "employees", s.Employees)
		return err
	})
	g.Go(func() (err error) {
		snap.Tools, err = list(ctx, "tools", s.Tools)
		return err
	})
	g.Go(func() (err error) {
		snap.Locations, err = list(ctx, "locations", s.Locations)
		return err
	})
	g.Go(func() (err error) {
		snap.Checkouts, err = list(ctx, "checkouts", s.Checkouts)
		return err
	})
	g.Go(func() (err error) {
		snap.Returns, err = list(ctx, "returns", s.Returns)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.FetchedAt = time.Now()
	return &snap, nil
}

func list[F models.Fields](ctx context.Context, kind string, c Collection[F]) ([]models.Record[F], error) {
	rs, err := c.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return rs, nil
}
