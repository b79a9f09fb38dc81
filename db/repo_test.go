package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

func TestConfigDSN(t *testing.T) {
	c := Config{Host: "db", Port: "5432", User: "wz", Password: "pw", Name: "werkzeug"}
	assert.Equal(t, "host=db user=wz password=pw dbname=werkzeug port=5432 sslmode=disable", c.DSN())
	c.SSLMode = "require"
	assert.Contains(t, c.DSN(), "sslmode=require")
}

func TestRowTableNames(t *testing.T) {
	assert.Equal(t, TableEmployees, row[models.EmployeeFields]{}.TableName())
	assert.Equal(t, TableTools, row[models.ToolFields]{}.TableName())
	assert.Equal(t, TableLocations, row[models.LocationFields]{}.TableName())
	assert.Equal(t, TableCheckouts, row[models.CheckoutFields]{}.TableName())
	assert.Equal(t, TableReturns, row[models.ReturnFields]{}.TableName())
}

func TestRowRecord(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	r := row[models.ToolFields]{ID: "aaaaaaaaaaaaaaaaaaaaaa01", CreatedAt: created, UpdatedAt: created,
		Fields: models.ToolFields{Designation: models.Ptr("Leiter")}}

	rec := r.record()
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaa01", rec.ID)
	assert.True(t, rec.CreatedAt.Time().Equal(created))
	assert.Nil(t, rec.UpdatedAt)

	r.UpdatedAt = created.Add(time.Hour)
	require.NotNil(t, r.record().UpdatedAt)
}

// needs a disposable database, e.g.
// TEST_DATABASE_DSN="host=localhost user=postgres password=postgres dbname=wz_test port=5432 sslmode=disable"
func openTestDB(t *testing.T) *Repo {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	for _, tbl := range []string{TableEmployees, TableTools, TableLocations, TableCheckouts, TableReturns, models.MutationLogTable} {
		require.NoError(t, conn.Exec("TRUNCATE "+tbl).Error)
	}
	return NewRepo(conn, refs.NewResolver("", refs.DefaultAppIDs))
}

func TestCollection_CRUD(t *testing.T) {
	repo := openTestDB(t)
	s := repo.Store()
	ctx := context.Background()

	tool, err := s.Tools.Create(ctx, models.ToolFields{
		Designation:    models.Ptr("Prüfgerät"),
		PurchasePrice:  models.Ptr(decimal.RequireFromString("1299.00")),
		NextInspection: models.Ptr(models.MustDate("2025-08-01")),
	})
	require.NoError(t, err)
	assert.Len(t, tool.ID, 24)

	upd, err := s.Tools.Update(ctx, tool.ID, models.ToolFields{Condition: models.Ptr(models.ConditionDefective)})
	require.NoError(t, err)
	assert.Equal(t, "Prüfgerät", upd.Fields.Name())
	assert.Equal(t, models.ConditionDefective, *upd.Fields.Condition)

	got, err := s.Tools.Get(ctx, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-01", got.Fields.NextInspection.String())
	assert.True(t, decimal.RequireFromString("1299").Equal(*got.Fields.PurchasePrice))

	list, err := s.Tools.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Tools.Delete(ctx, tool.ID))
	assert.ErrorIs(t, s.Tools.Delete(ctx, tool.ID), store.ErrNotFound)
	_, err = s.Tools.Get(ctx, tool.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExclusiveCheckout(t *testing.T) {
	repo := openTestDB(t)
	s := repo.Store()
	ctx := context.Background()

	tool, err := s.Tools.Create(ctx, models.ToolFields{Designation: models.Ptr("Bohrhammer")})
	require.NoError(t, err)
	toolRef := repo.Refs.URL(refs.KindTool, tool.ID)

	c, err := s.Exclusive.CreateCheckoutExclusive(ctx, toolRef, models.CheckoutFields{})
	require.NoError(t, err)
	_, err = s.Exclusive.CreateCheckoutExclusive(ctx, toolRef, models.CheckoutFields{})
	assert.ErrorIs(t, err, store.ErrToolBusy)

	checkoutRef := repo.Refs.URL(refs.KindCheckout, c.ID)
	_, err = s.Exclusive.CreateReturnExclusive(ctx, checkoutRef, models.ReturnFields{})
	require.NoError(t, err)
	_, err = s.Exclusive.CreateReturnExclusive(ctx, checkoutRef, models.ReturnFields{})
	assert.ErrorIs(t, err, store.ErrCheckoutClosed)

	_, err = s.Exclusive.CreateCheckoutExclusive(ctx, toolRef, models.CheckoutFields{})
	assert.NoError(t, err)

	_, err = s.Exclusive.CreateCheckoutExclusive(ctx, repo.Refs.URL(refs.KindTool, "ffffffffffffffffffffff01"), models.CheckoutFields{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMutationLog(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.LogMutation(ctx, &models.MutationLog{Kind: "tool", Action: models.ActionCreate, RecordID: "a", Actor: "lager"}))
	require.NoError(t, repo.LogMutation(ctx, &models.MutationLog{Kind: "checkout", Action: models.ActionDelete, RecordID: "b"}))

	all, err := repo.ListMutations(ctx, MutationQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tools, err := repo.ListMutations(ctx, MutationQuery{Kind: "tool"})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "lager", tools[0].Actor)
}
