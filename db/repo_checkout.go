package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

// CreateCheckoutExclusive locks the tool row, refuses when the tool has a
// checkout without return and otherwise inserts the checkout.
func (r *Repo) CreateCheckoutExclusive(ctx context.Context, toolRef string, fields models.CheckoutFields) (*models.Checkout, error) {
	toolID, ok := r.Refs.ID(&toolRef, refs.KindTool)
	if !ok {
		return nil, store.ErrNotFound
	}
	var out models.Checkout
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) lock the tool
		var t row[models.ToolFields]
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", toolID).Error; err != nil {
			return notFound(err)
		}
		// 2) any open checkout of this tool
		n, err := r.openCheckouts(tx, toolID)
		if err != nil {
			return err
		}
		if n > 0 {
			return store.ErrToolBusy
		}
		// 3) insert
		fields.Tool = r.Refs.Ref(refs.KindTool, toolID)
		c := row[models.CheckoutFields]{ID: store.NewRecordID(), Fields: fields}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		out = c.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReturnExclusive locks the checkout row and refuses a second return.
func (r *Repo) CreateReturnExclusive(ctx context.Context, checkoutRef string, fields models.ReturnFields) (*models.Return, error) {
	checkoutID, ok := r.Refs.ID(&checkoutRef, refs.KindCheckout)
	if !ok {
		return nil, store.ErrNotFound
	}
	var out models.Return
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c row[models.CheckoutFields]
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", checkoutID).Error; err != nil {
			return notFound(err)
		}
		var n int64
		if err := tx.Model(&row[models.ReturnFields]{}).
			Where("ausgabe IN ?", r.refForms(refs.KindCheckout, checkoutID)).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return store.ErrCheckoutClosed
		}
		fields.Checkout = r.Refs.Ref(refs.KindCheckout, checkoutID)
		ret := row[models.ReturnFields]{ID: store.NewRecordID(), Fields: fields}
		if err := tx.Create(&ret).Error; err != nil {
			return err
		}
		out = ret.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// openCheckouts counts checkouts of toolID that no return references.
func (r *Repo) openCheckouts(tx *gorm.DB, toolID string) (int64, error) {
	var n int64
	err := tx.Table(TableCheckouts+" c").
		Where("c.werkzeug IN ?", r.refForms(refs.KindTool, toolID)).
		Where(`NOT EXISTS (
			SELECT 1 FROM `+TableReturns+` rt
			WHERE rt.ausgabe = c.id OR rt.ausgabe = ? || c.id
		)`, r.Refs.Prefix(refs.KindCheckout)).
		Count(&n).Error
	return n, err
}

// refForms are the stored spellings of a reference to id: canonical URL or
// bare id.
func (r *Repo) refForms(k refs.Kind, id string) []string {
	return []string{r.Refs.URL(k, id), id}
}
