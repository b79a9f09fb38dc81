package db

import (
	"context"
	"fmt"

	"werkzeugverwaltung/models"
)

func (r *Repo) LogMutation(ctx context.Context, e *models.MutationLog) error {
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert mutation log: %w", err)
	}
	return nil
}

type MutationQuery struct {
	Kind     string
	RecordID string
	Limit    int
}

// ListMutations returns the newest entries first.
func (r *Repo) ListMutations(ctx context.Context, q MutationQuery) ([]models.MutationLog, error) {
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	tx := r.DB.WithContext(ctx).Model(&models.MutationLog{}).Order("created_at DESC").Limit(q.Limit)
	if q.Kind != "" {
		tx = tx.Where("kind = ?", q.Kind)
	}
	if q.RecordID != "" {
		tx = tx.Where("record_id = ?", q.RecordID)
	}
	var out []models.MutationLog
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
