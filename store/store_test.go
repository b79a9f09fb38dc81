package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkzeugverwaltung/memstore"
	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

type failingList[F models.Fields] struct {
	store.Collection[F]
	err error
}

func (f failingList[F]) List(ctx context.Context) ([]models.Record[F], error) { return nil, f.err }

func newStore() *store.Store {
	return memstore.New(refs.NewResolver("", refs.DefaultAppIDs)).Store()
}

func TestFetchSnapshot_AllKinds(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	_, err := s.Tools.Create(ctx, models.ToolFields{Designation: models.Ptr("Multimeter")})
	require.NoError(t, err)
	_, err = s.Employees.Create(ctx, models.EmployeeFields{FirstName: models.Ptr("Kai")})
	require.NoError(t, err)

	snap, err := store.FetchSnapshot(ctx, s)
	require.NoError(t, err)
	assert.Len(t, snap.Tools, 1)
	assert.Len(t, snap.Employees, 1)
	assert.Empty(t, snap.Checkouts)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestFetchSnapshot_OneFailureFailsAll(t *testing.T) {
	s := newStore()
	boom := errors.New("upstream 503")
	s.Returns = failingList[models.ReturnFields]{s.Returns, boom}

	snap, err := store.FetchSnapshot(context.Background(), s)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list returns")
}

func TestInvalidating_CallsHookOnSuccessfulMutationsOnly(t *testing.T) {
	calls := 0
	s := store.Invalidating(newStore(), func(context.Context) { calls++ })
	ctx := context.Background()

	rec, err := s.Locations.Create(ctx, models.LocationFields{Name: models.Ptr("Halle")})
	require.NoError(t, err)
	_, err = s.Locations.Update(ctx, rec.ID, models.LocationFields{Description: models.Ptr("hinten")})
	require.NoError(t, err)
	_, err = s.Locations.List(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Locations.Delete(ctx, rec.ID))
	assert.Equal(t, 3, calls)

	assert.ErrorIs(t, s.Locations.Delete(ctx, rec.ID), store.ErrNotFound)
	assert.Equal(t, 3, calls, "failed mutations do not invalidate")

	require.NotNil(t, s.Exclusive)
	toolRef := refs.NewResolver("", refs.DefaultAppIDs).URL(refs.KindTool, "dddddddddddddddddddddddd")
	_, err = s.Exclusive.CreateCheckoutExclusive(ctx, toolRef, models.CheckoutFields{})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestNewRecordID(t *testing.T) {
	a, b := store.NewRecordID(), store.NewRecordID()
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[0-9a-f]{24}$`, a)
}
