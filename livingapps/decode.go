package livingapps

import (
	"bytes"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"werkzeugverwaltung/models"
)

// wireRecord is a record as the store sends it; list responses key records
// by id and leave record_id out. Timestamps and fields stay raw so one
// malformed value cannot fail the whole response.
type wireRecord struct {
	ID        string          `json:"id,omitempty"`
	RecordID  string          `json:"record_id,omitempty"`
	CreatedAt json.RawMessage `json:"createdat"`
	UpdatedAt json.RawMessage `json:"updatedat"`
	Fields    json.RawMessage `json:"fields"`
}

func (w wireRecord) hasFields() bool {
	return len(w.Fields) > 0 && !bytes.Equal(w.Fields, []byte("null"))
}

// decode turns w into a record. Values the store sends in an unexpected
// shape are treated as absent and logged.
func (col *collection[F]) decode(id string, w wireRecord) models.Record[F] {
	r := models.Record[F]{ID: id}
	log := col.c.log.With(zap.String("app", col.app), zap.String("record", id))

	if len(w.CreatedAt) > 0 {
		if err := json.Unmarshal(w.CreatedAt, &r.CreatedAt); err != nil {
			log.Warn("ignoring malformed createdat", zap.ByteString("value", w.CreatedAt), zap.Error(err))
			r.CreatedAt = models.Timestamp{}
		}
	}
	if len(w.UpdatedAt) > 0 {
		var ts *models.Timestamp
		if err := json.Unmarshal(w.UpdatedAt, &ts); err != nil {
			log.Warn("ignoring malformed updatedat", zap.ByteString("value", w.UpdatedAt), zap.Error(err))
		} else if ts.Valid() {
			r.UpdatedAt = ts
		}
	}
	if w.hasFields() {
		r.Fields = decodeFields[F](w.Fields, log)
	}
	return r
}

// decodeFields decodes raw leniently: when the object as a whole does not
// decode, every key that fails on its own is dropped.
func decodeFields[F models.Fields](raw json.RawMessage, log *zap.Logger) F {
	var f F
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		log.Warn("ignoring malformed fields", zap.Error(err))
		return f
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		one, _ := json.Marshal(map[string]json.RawMessage{k: byKey[k]})
		var single F
		if err := json.Unmarshal(one, &single); err != nil {
			log.Warn("ignoring malformed field", zap.String("field", k), zap.ByteString("value", byKey[k]), zap.Error(err))
			delete(byKey, k)
		}
	}
	kept, _ := json.Marshal(byKey)
	f = *new(F)
	if err := json.Unmarshal(kept, &f); err != nil {
		log.Warn("ignoring malformed fields", zap.Error(err))
		return *new(F)
	}
	return f
}
