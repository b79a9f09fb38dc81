package livingapps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"werkzeugverwaltung/models"
)

type fieldsBody[F models.Fields] struct {
	Fields F `json:"fields"`
}

type collection[F models.Fields] struct {
	c   *Client
	app string
}

func (col *collection[F]) path(id string) string {
	p := "/apps/" + url.PathEscape(col.app) + "/records"
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (col *collection[F]) List(ctx context.Context) ([]models.Record[F], error) {
	var byID map[string]json.RawMessage
	if err := col.c.do(ctx, http.MethodGet, col.path(""), nil, &byID); err != nil {
		return nil, err
	}
	out := make([]models.Record[F], 0, len(byID))
	for id, raw := range byID {
		var w wireRecord
		if err := json.Unmarshal(raw, &w); err != nil {
			col.c.log.Warn("skipping malformed record",
				zap.String("app", col.app), zap.String("record", id), zap.Error(err))
			continue
		}
		out = append(out, col.decode(id, w))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].CreatedAt.Time(), out[j].CreatedAt.Time()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (col *collection[F]) Get(ctx context.Context, id string) (*models.Record[F], error) {
	var w wireRecord
	if err := col.c.do(ctx, http.MethodGet, col.path(id), nil, &w); err != nil {
		return nil, err
	}
	r := col.decode(id, w)
	return &r, nil
}

func (col *collection[F]) Create(ctx context.Context, fields F) (*models.Record[F], error) {
	var w wireRecord
	if err := col.c.do(ctx, http.MethodPost, col.path(""), fieldsBody[F]{Fields: fields}, &w); err != nil {
		return nil, err
	}
	id := w.RecordID
	if id == "" {
		id = w.ID
	}
	if w.hasFields() || id == "" {
		r := col.decode(id, w)
		if !w.hasFields() {
			r.Fields = fields
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = models.NewTimestamp(time.Now())
		}
		return &r, nil
	}
	return col.Get(ctx, id)
}

func (col *collection[F]) Update(ctx context.Context, id string, patch F) (*models.Record[F], error) {
	var w wireRecord
	if err := col.c.do(ctx, http.MethodPatch, col.path(id), fieldsBody[F]{Fields: patch}, &w); err != nil {
		return nil, err
	}
	if w.hasFields() {
		r := col.decode(id, w)
		return &r, nil
	}
	return col.Get(ctx, id)
}

func (col *collection[F]) Delete(ctx context.Context, id string) error {
	return col.c.do(ctx, http.MethodDelete, col.path(id), nil, nil)
}
