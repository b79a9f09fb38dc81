package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/store"
)

// Records is the plain CRUD path for one record kind: validation, the store
// call and the audit entry.
type Records[F models.Fields] struct {
	kind  string
	col   store.Collection[F]
	audit *Auditor
	log   *zap.Logger
}

func NewRecords[F models.Fields](kind string, col store.Collection[F], audit *Auditor, log *zap.Logger) *Records[F] {
	return &Records[F]{kind: kind, col: col, audit: audit, log: log}
}

func (s *Records[F]) Kind() string { return s.kind }

func (s *Records[F]) List(ctx context.Context) ([]models.Record[F], error) {
	rs, err := s.col.List(ctx)
	if err != nil {
		return nil, s.storeErr("list", "", err)
	}
	return rs, nil
}

func (s *Records[F]) Get(ctx context.Context, id string) (*models.Record[F], error) {
	r, err := s.col.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr("get", id, err)
	}
	return r, nil
}

func (s *Records[F]) Create(ctx context.Context, fields F) (*models.Record[F], error) {
	if err := validate(fields); err != nil {
		return nil, err
	}
	r, err := s.col.Create(ctx, fields)
	if err != nil {
		return nil, s.storeErr("create", "", err)
	}
	s.audit.Record(ctx, s.kind, models.ActionCreate, r.ID)
	return r, nil
}

func (s *Records[F]) Update(ctx context.Context, id string, patch F) (*models.Record[F], error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	r, err := s.col.Update(ctx, id, patch)
	if err != nil {
		return nil, s.storeErr("update", id, err)
	}
	s.audit.Record(ctx, s.kind, models.ActionUpdate, id)
	return r, nil
}

func (s *Records[F]) Delete(ctx context.Context, id string) error {
	if err := s.col.Delete(ctx, id); err != nil {
		return s.storeErr("delete", id, err)
	}
	s.audit.Record(ctx, s.kind, models.ActionDelete, id)
	return nil
}

func (s *Records[F]) storeErr(op, id string, err error) error {
	if !errors.Is(err, store.ErrNotFound) {
		s.log.Error("record store call failed",
			zap.String("op", op), zap.String("kind", s.kind), zap.String("record_id", id), zap.Error(err))
	}
	if id == "" {
		return fmt.Errorf("%s %s: %w", op, s.kind, err)
	}
	return fmt.Errorf("%s %s %s: %w", op, s.kind, id, err)
}

func validate[F models.Fields](f F) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}
