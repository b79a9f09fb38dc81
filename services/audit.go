package services

import (
	"context"

	"go.uber.org/zap"

	"werkzeugverwaltung/models"
)

type ctxKey int

const (
	actorKey ctxKey = iota
	requestIDKey
)

// WithActor tags ctx with the caller name recorded in the audit log.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func actorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey).(string)
	return s
}

func requestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

// AuditLog persists successful mutations. db.Repo implements it.
type AuditLog interface {
	LogMutation(ctx context.Context, entry *models.MutationLog) error
}

// LogOnlyAudit writes audit entries to the logger when no database is
// configured.
type LogOnlyAudit struct{ Log *zap.Logger }

func (a LogOnlyAudit) LogMutation(ctx context.Context, e *models.MutationLog) error {
	a.Log.Info("mutation",
		zap.String("kind", e.Kind),
		zap.String("action", string(e.Action)),
		zap.String("record_id", e.RecordID),
		zap.String("actor", e.Actor),
		zap.String("request_id", e.RequestID),
	)
	return nil
}

// Auditor records mutations and never fails the caller: a write that reached
// the store is not rolled back because the audit insert failed.
type Auditor struct {
	sink AuditLog
	log  *zap.Logger
}

func NewAuditor(sink AuditLog, log *zap.Logger) *Auditor {
	if sink == nil {
		sink = LogOnlyAudit{Log: log}
	}
	return &Auditor{sink: sink, log: log}
}

func (a *Auditor) Record(ctx context.Context, kind string, action models.MutationAction, recordID string) {
	e := &models.MutationLog{
		Kind:      kind,
		Action:    action,
		RecordID:  recordID,
		Actor:     actorFrom(ctx),
		RequestID: requestIDFrom(ctx),
	}
	if err := a.sink.LogMutation(ctx, e); err != nil {
		a.log.Warn("audit log write failed", zap.Error(err), zap.String("kind", kind), zap.String("record_id", recordID))
	}
}
