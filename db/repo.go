// Package db is the postgres record store: one table per record kind, the
// row-locked checkout path and the mutation audit log.
package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

type Repo struct {
	DB   *gorm.DB
	Refs refs.Resolver
}

func NewRepo(db *gorm.DB, r refs.Resolver) *Repo { return &Repo{DB: db, Refs: r} }

// Store exposes the tables through the store boundary; Exclusive is backed
// by row locks.
func (r *Repo) Store() *store.Store {
	return &store.Store{
		Employees: collection[models.EmployeeFields]{db: r.DB},
		Tools:     collection[models.ToolFields]{db: r.DB},
		Locations: collection[models.LocationFields]{db: r.DB},
		Checkouts: collection[models.CheckoutFields]{db: r.DB},
		Returns:   collection[models.ReturnFields]{db: r.DB},
		Exclusive: r,
	}
}

type collection[F models.Fields] struct{ db *gorm.DB }

func (c collection[F]) List(ctx context.Context) ([]models.Record[F], error) {
	var rows []row[F]
	if err := c.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Record[F], 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (c collection[F]) Get(ctx context.Context, id string) (*models.Record[F], error) {
	var r row[F]
	if err := c.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	rec := r.record()
	return &rec, nil
}

func (c collection[F]) Create(ctx context.Context, fields F) (*models.Record[F], error) {
	r := row[F]{ID: store.NewRecordID(), Fields: fields}
	if err := c.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	rec := r.record()
	return &rec, nil
}

// Update locks the row, merges the patch and saves the whole row.
func (c collection[F]) Update(ctx context.Context, id string, patch F) (*models.Record[F], error) {
	var r row[F]
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&r, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		models.Merge(&r.Fields, patch)
		return tx.Save(&r).Error
	})
	if err != nil {
		return nil, err
	}
	rec := r.record()
	return &rec, nil
}

func (c collection[F]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Delete(&row[F]{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
