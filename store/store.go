// Package store is the boundary to the record store holding employees,
// tools, storage locations, checkouts and returns.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"werkzeugverwaltung/models"
)

var ErrNotFound = errors.New("record not found")

// Collection is one record kind of the store. Update is partial: only the
// non-nil fields of the patch change.
type Collection[F models.Fields] interface {
	List(ctx context.Context) ([]models.Record[F], error)
	Get(ctx context.Context, id string) (*models.Record[F], error)
	Create(ctx context.Context, fields F) (*models.Record[F], error)
	Update(ctx context.Context, id string, patch F) (*models.Record[F], error)
	Delete(ctx context.Context, id string) error
}

type Store struct {
	Employees Collection[models.EmployeeFields]
	Tools     Collection[models.ToolFields]
	Locations Collection[models.LocationFields]
	Checkouts Collection[models.CheckoutFields]
	Returns   Collection[models.ReturnFields]

	// Exclusive is nil when the backend cannot lock.
	Exclusive ExclusiveCheckouts
}

// ExclusiveCheckouts is implemented by backends that can create checkouts
// and returns while holding a lock on the tool or checkout.
type ExclusiveCheckouts interface {
	// CreateCheckoutExclusive fails with ErrToolBusy when toolRef already has
	// an open checkout.
	CreateCheckoutExclusive(ctx context.Context, toolRef string, fields models.CheckoutFields) (*models.Checkout, error)
	// CreateReturnExclusive fails with ErrCheckoutClosed when checkoutRef
	// already has a return.
	CreateReturnExclusive(ctx context.Context, checkoutRef string, fields models.ReturnFields) (*models.Return, error)
}

var (
	ErrToolBusy       = errors.New("tool has an open checkout")
	ErrCheckoutClosed = errors.New("checkout already returned")
)

// NewRecordID returns a 24 hex digit id, the shape the hosted store uses.
func NewRecordID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
