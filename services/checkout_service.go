package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/reconcile"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

// CheckoutForm is the input of Issue and Update. Update treats empty ids and
// nil pointers as "unchanged".
type CheckoutForm struct {
	ToolID        string            `json:"toolId"`
	EmployeeID    string            `json:"employeeId"`
	IssuedAt      *models.Timestamp `json:"issuedAt"`
	PlannedReturn *models.Date      `json:"plannedReturn"`
	Purpose       *string           `json:"purpose"`
	Notes         *string           `json:"notes"`
}

type ReturnForm struct {
	CheckoutID string                  `json:"checkoutId"`
	ReturnedAt *models.Timestamp       `json:"returnedAt"`
	LocationID string                  `json:"locationId"`
	Condition  *models.ReturnCondition `json:"condition"`
	Damage     *string                 `json:"damage"`
	Notes      *string                 `json:"notes"`
}

// CheckoutService is the gateway for checkout and return writes. By default
// it does not check availability; with strict set it refuses a second open
// checkout per tool and a second return per checkout.
type CheckoutService struct {
	store     *store.Store
	refs      refs.Resolver
	engine    *reconcile.Engine
	checkouts *Records[models.CheckoutFields]
	returns   *Records[models.ReturnFields]
	audit     *Auditor
	log       *zap.Logger
	now       func() time.Time
	strict    bool
}

func NewCheckoutService(s *store.Store, r refs.Resolver, audit *Auditor, log *zap.Logger, strict bool) *CheckoutService {
	return &CheckoutService{
		store:     s,
		refs:      r,
		engine:    reconcile.New(r),
		checkouts: NewRecords(refs.KindCheckout.String(), s.Checkouts, audit, log),
		returns:   NewRecords(refs.KindReturn.String(), s.Returns, audit, log),
		audit:     audit,
		log:       log,
		now:       time.Now,
		strict:    strict,
	}
}

func (s *CheckoutService) SetClock(now func() time.Time) { s.now = now }

func (s *CheckoutService) Strict() bool { return s.strict }

// Checkouts and Returns serve the read and delete paths.
func (s *CheckoutService) Checkouts() *Records[models.CheckoutFields] { return s.checkouts }
func (s *CheckoutService) Returns() *Records[models.ReturnFields]     { return s.returns }

func (s *CheckoutService) Issue(ctx context.Context, f CheckoutForm) (*models.Checkout, error) {
	toolID, err := s.requireID(refs.KindTool, f.ToolID)
	if err != nil {
		return nil, err
	}
	employeeID, err := s.requireID(refs.KindEmployee, f.EmployeeID)
	if err != nil {
		return nil, err
	}
	fields := models.CheckoutFields{
		Tool:          s.refs.Ref(refs.KindTool, toolID),
		Employee:      s.refs.Ref(refs.KindEmployee, employeeID),
		IssuedAt:      f.IssuedAt,
		PlannedReturn: f.PlannedReturn,
		Purpose:       blankToNil(f.Purpose),
		Notes:         blankToNil(f.Notes),
	}
	if !fields.IssuedAt.Valid() {
		ts := models.NewTimestamp(s.now().Truncate(time.Minute))
		fields.IssuedAt = &ts
	}
	if !fields.PlannedReturn.Valid() {
		fields.PlannedReturn = nil
	} else if fields.PlannedReturn.Before(fields.IssuedAt.Date()) {
		return nil, fmt.Errorf("%w: planned return %s is before issue date", ErrInvalidForm, fields.PlannedReturn)
	}

	if !s.strict {
		return s.checkouts.Create(ctx, fields)
	}
	if s.store.Exclusive != nil {
		c, err := s.store.Exclusive.CreateCheckoutExclusive(ctx, *fields.Tool, fields)
		switch {
		case errors.Is(err, store.ErrToolBusy):
			return nil, fmt.Errorf("%w: tool %s", ErrToolCheckedOut, toolID)
		case err != nil:
			return nil, s.checkouts.storeErr("create", "", err)
		}
		s.audit.Record(ctx, s.checkouts.Kind(), models.ActionCreate, c.ID)
		return c, nil
	}

	res, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	if res.Tool(toolID) == nil {
		return nil, fmt.Errorf("tool %s: %w", toolID, store.ErrNotFound)
	}
	if st := res.State(toolID); st.CheckedOut {
		return nil, fmt.Errorf("%w: tool %s by checkout %s", ErrToolCheckedOut, toolID, st.CheckoutID)
	}
	return s.checkouts.Create(ctx, fields)
}

func (s *CheckoutService) Update(ctx context.Context, id string, f CheckoutForm) (*models.Checkout, error) {
	var patch models.CheckoutFields
	if f.ToolID != "" {
		toolID, err := s.requireID(refs.KindTool, f.ToolID)
		if err != nil {
			return nil, err
		}
		patch.Tool = s.refs.Ref(refs.KindTool, toolID)
	}
	if f.EmployeeID != "" {
		employeeID, err := s.requireID(refs.KindEmployee, f.EmployeeID)
		if err != nil {
			return nil, err
		}
		patch.Employee = s.refs.Ref(refs.KindEmployee, employeeID)
	}
	if f.IssuedAt.Valid() {
		patch.IssuedAt = f.IssuedAt
	}
	if f.PlannedReturn.Valid() {
		patch.PlannedReturn = f.PlannedReturn
	}
	if patch.IssuedAt != nil && patch.PlannedReturn != nil && patch.PlannedReturn.Before(patch.IssuedAt.Date()) {
		return nil, fmt.Errorf("%w: planned return %s is before issue date", ErrInvalidForm, patch.PlannedReturn)
	}
	patch.Purpose = f.Purpose
	patch.Notes = f.Notes
	return s.checkouts.Update(ctx, id, patch)
}

func (s *CheckoutService) Delete(ctx context.Context, id string) error {
	return s.checkouts.Delete(ctx, id)
}

func (s *CheckoutService) Return(ctx context.Context, f ReturnForm) (*models.Return, error) {
	checkoutID, err := s.requireID(refs.KindCheckout, f.CheckoutID)
	if err != nil {
		return nil, err
	}
	fields := models.ReturnFields{
		Checkout:   s.refs.Ref(refs.KindCheckout, checkoutID),
		ReturnedAt: f.ReturnedAt,
		Condition:  f.Condition,
		Damage:     blankToNil(f.Damage),
		Notes:      blankToNil(f.Notes),
	}
	if f.LocationID != "" {
		locationID, err := s.requireID(refs.KindLocation, f.LocationID)
		if err != nil {
			return nil, err
		}
		fields.Location = s.refs.Ref(refs.KindLocation, locationID)
	}
	if !fields.ReturnedAt.Valid() {
		ts := models.NewTimestamp(s.now().Truncate(time.Minute))
		fields.ReturnedAt = &ts
	}
	if err := validate(fields); err != nil {
		return nil, err
	}

	if !s.strict {
		return s.returns.Create(ctx, fields)
	}
	if s.store.Exclusive != nil {
		r, err := s.store.Exclusive.CreateReturnExclusive(ctx, *fields.Checkout, fields)
		switch {
		case errors.Is(err, store.ErrCheckoutClosed):
			return nil, fmt.Errorf("%w: checkout %s", ErrAlreadyReturned, checkoutID)
		case err != nil:
			return nil, s.returns.storeErr("create", "", err)
		}
		s.audit.Record(ctx, s.returns.Kind(), models.ActionCreate, r.ID)
		return r, nil
	}

	res, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	if res.Checkout(checkoutID) == nil {
		return nil, fmt.Errorf("checkout %s: %w", checkoutID, store.ErrNotFound)
	}
	if !res.IsOpen(checkoutID) {
		return nil, fmt.Errorf("%w: checkout %s", ErrAlreadyReturned, checkoutID)
	}
	return s.returns.Create(ctx, fields)
}

func (s *CheckoutService) UpdateReturn(ctx context.Context, id string, f ReturnForm) (*models.Return, error) {
	var patch models.ReturnFields
	if f.CheckoutID != "" {
		checkoutID, err := s.requireID(refs.KindCheckout, f.CheckoutID)
		if err != nil {
			return nil, err
		}
		patch.Checkout = s.refs.Ref(refs.KindCheckout, checkoutID)
	}
	if f.LocationID != "" {
		locationID, err := s.requireID(refs.KindLocation, f.LocationID)
		if err != nil {
			return nil, err
		}
		patch.Location = s.refs.Ref(refs.KindLocation, locationID)
	}
	if f.ReturnedAt.Valid() {
		patch.ReturnedAt = f.ReturnedAt
	}
	patch.Condition = f.Condition
	patch.Damage = f.Damage
	patch.Notes = f.Notes
	return s.returns.Update(ctx, id, patch)
}

func (s *CheckoutService) DeleteReturn(ctx context.Context, id string) error {
	return s.returns.Delete(ctx, id)
}

func (s *CheckoutService) reconcile(ctx context.Context) (*reconcile.Result, error) {
	snap, err := store.FetchSnapshot(ctx, s.store)
	if err != nil {
		s.log.Error("snapshot for availability check failed", zap.Error(err))
		return nil, err
	}
	return s.engine.Run(snap, reconcile.DefaultOptions(s.now())), nil
}

// requireID accepts a bare record id or a full reference of kind k.
func (s *CheckoutService) requireID(k refs.Kind, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidForm, k)
	}
	id, ok := s.refs.ID(&raw, k)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a %s id", ErrInvalidForm, raw, k)
	}
	return id, nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
