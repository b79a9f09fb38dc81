package livingapps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

const toolsPath = "/apps/" + "697b2b4092d14994749ca71b" + "/records"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "secret", Apps: refs.DefaultAppIDs, Timeout: 2 * time.Second}, nil)
}

func TestList_DecodesKeyedObjectInCreationOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, toolsPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = io.WriteString(w, `{
			"bbbbbbbbbbbbbbbbbbbbbbbb": {"createdat": "2025-02-01T10:00:00", "updatedat": null, "fields": {"bezeichnung": "Zweite"}},
			"aaaaaaaaaaaaaaaaaaaaaaaa": {"createdat": "2025-01-01T10:00:00", "updatedat": "2025-01-05T08:00:00", "fields": {"bezeichnung": "Erste", "naechster_prueftermin": "2025-06-30T00:00"}}
		}`)
	})

	tools, err := c.Store().Tools.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaa", tools[0].ID)
	assert.Equal(t, "Erste", tools[0].Fields.Name())
	assert.Equal(t, models.MustDate("2025-06-30"), *tools[0].Fields.NextInspection)
	assert.True(t, tools[0].UpdatedAt.Valid())
	assert.Equal(t, "Zweite", tools[1].Fields.Name())
}

func TestCreate_SendsFieldsEnvelopeAndFollowsUpWithGet(t *testing.T) {
	var posted map[string]map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			_, _ = io.WriteString(w, `{"id": "cccccccccccccccccccccccc"}`)
		case http.MethodGet:
			assert.Equal(t, toolsPath+"/cccccccccccccccccccccccc", r.URL.Path)
			_, _ = io.WriteString(w, `{"createdat": "2025-03-01T12:00:00", "fields": {"bezeichnung": "Neu"}}`)
		}
	})

	rec, err := c.Store().Tools.Create(context.Background(), models.ToolFields{Designation: models.Ptr("Neu")})
	require.NoError(t, err)
	assert.Equal(t, "cccccccccccccccccccccccc", rec.ID)
	assert.Equal(t, "Neu", rec.Fields.Name())
	assert.Equal(t, map[string]any{"bezeichnung": "Neu"}, posted["fields"])
}

func TestUpdate_UsesPatchAndReturnsEchoedRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"fields":{"zustand":"defekt"}}`, string(body))
		_, _ = io.WriteString(w, `{"createdat": "2025-03-01T12:00:00", "fields": {"bezeichnung": "Flex", "zustand": "defekt"}}`)
	})

	rec, err := c.Store().Tools.Update(context.Background(), "dddddddddddddddddddddddd",
		models.ToolFields{Condition: models.Ptr(models.ConditionDefective)})
	require.NoError(t, err)
	assert.Equal(t, "dddddddddddddddddddddddd", rec.ID)
	assert.Equal(t, models.ConditionDefective, *rec.Fields.Condition)
}

func TestErrors_MapStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			http.Error(w, "no such record", http.StatusNotFound)
			return
		}
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	err := c.Store().Checkouts.Delete(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeee")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.Store().Returns.List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "maintenance", apiErr.Body)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestFetchSnapshot_AgainstServer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	snap, err := store.FetchSnapshot(context.Background(), c.Store())
	require.NoError(t, err)
	assert.Empty(t, snap.Tools)
	assert.Empty(t, snap.Returns)
}

func TestList_MalformedValuesDecodeAsAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"aaaaaaaaaaaaaaaaaaaaaaaa": {"createdat": "2025-01-01T10:00:00", "fields": {"bezeichnung": "Ok", "naechster_prueftermin": "2025-06-30"}},
			"bbbbbbbbbbbbbbbbbbbbbbbb": {"createdat": "2025-01-02T10:00:00", "fields": {
				"bezeichnung": "Kaputt",
				"naechster_prueftermin": "31.12.2025",
				"anschaffungspreis": "teuer",
				"pruefpflicht": true
			}},
			"cccccccccccccccccccccccc": {"createdat": "gestern", "updatedat": 17, "fields": {"bezeichnung": "Ohne Datum"}},
			"dddddddddddddddddddddddd": "kein Datensatz"
		}`)
	})

	tools, err := c.Store().Tools.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 3)

	byName := map[string]models.Tool{}
	for _, tool := range tools {
		byName[tool.Fields.Name()] = tool
	}

	require.Contains(t, byName, "Ok")
	assert.Equal(t, models.MustDate("2025-06-30"), *byName["Ok"].Fields.NextInspection)

	bad, ok := byName["Kaputt"]
	require.True(t, ok)
	assert.Nil(t, bad.Fields.NextInspection)
	assert.Nil(t, bad.Fields.PurchasePrice)
	require.NotNil(t, bad.Fields.InspectionDuty, "well-formed siblings survive")
	assert.True(t, *bad.Fields.InspectionDuty)

	undated, ok := byName["Ohne Datum"]
	require.True(t, ok)
	assert.True(t, undated.CreatedAt.IsZero())
	assert.Nil(t, undated.UpdatedAt)
}

func TestGet_MalformedCheckoutDatesDecodeAsAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"createdat": "2025-03-01T08:00:00", "fields": {
			"werkzeug": "https://my.living-apps.de/rest/apps/697b2b4092d14994749ca71b/records/aaaaaaaaaaaaaaaaaaaaaaaa",
			"ausgabedatum": "irgendwann",
			"geplantes_rueckgabedatum": "03/15/2025"
		}}`)
	})

	rec, err := c.Store().Checkouts.Get(context.Background(), "dddddddddddddddddddddddd")
	require.NoError(t, err)
	assert.Nil(t, rec.Fields.IssuedAt)
	assert.Nil(t, rec.Fields.PlannedReturn)
	require.NotNil(t, rec.Fields.Tool)
	assert.Contains(t, *rec.Fields.Tool, "aaaaaaaaaaaaaaaaaaaaaaaa")
}
