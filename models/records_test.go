package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_DecodeStoreShape(t *testing.T) {
	raw := `{
		"record_id": "65a1b2c3d4e5f60718293a4b",
		"createdat": "2025-01-10T09:00:00",
		"updatedat": null,
		"fields": {
			"bezeichnung": "Bohrhammer",
			"kategorie": "elektrowerkzeug",
			"anschaffungspreis": 349.9,
			"pruefpflicht": true,
			"naechster_prueftermin": "2025-05-01T00:00"
		}
	}`
	var tool Tool
	require.NoError(t, json.Unmarshal([]byte(raw), &tool))

	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", tool.ID)
	assert.Nil(t, tool.UpdatedAt)
	assert.Equal(t, "Bohrhammer", tool.Fields.Name())
	assert.True(t, tool.Fields.RequiresInspection())
	assert.Equal(t, MustDate("2025-05-01"), *tool.Fields.NextInspection)
	assert.True(t, decimal.RequireFromString("349.9").Equal(*tool.Fields.PurchasePrice))

	b, err := json.Marshal(tool.Fields)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"anschaffungspreis":349.9`)
	assert.NotContains(t, string(b), "hersteller", "absent fields stay absent")
}

func TestMerge_OnlyCopiesSetFields(t *testing.T) {
	dst := ToolFields{Designation: Ptr("Leiter 3m"), Notes: Ptr("alt")}
	Merge(&dst, ToolFields{Notes: Ptr("neu"), Condition: Ptr(ConditionWorn)})

	assert.Equal(t, "Leiter 3m", *dst.Designation)
	assert.Equal(t, "neu", *dst.Notes)
	assert.Equal(t, ConditionWorn, *dst.Condition)
}

func TestMerge_DoesNotAliasPatch(t *testing.T) {
	patch := ToolFields{Notes: Ptr("neu")}
	var dst ToolFields
	Merge(&dst, patch)

	*patch.Notes = "geändert"
	assert.Equal(t, "neu", *dst.Notes)

	c := Clone(dst)
	*c.Notes = "kopie"
	assert.Equal(t, "neu", *dst.Notes)
}

func TestValidate_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"department", EmployeeFields{Department: Ptr(Department("kantine"))}.Validate()},
		{"category", ToolFields{Category: Ptr(ToolCategory("drohne"))}.Validate()},
		{"condition", ToolFields{Condition: Ptr(ToolCondition("kaputt"))}.Validate()},
		{"negative price", ToolFields{PurchasePrice: Ptr(decimal.NewFromInt(-1))}.Validate()},
		{"location type", LocationFields{Type: Ptr(LocationType("keller"))}.Validate()},
		{"return condition", ReturnFields{Condition: Ptr(ReturnCondition("nass"))}.Validate()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.Is(tc.err, ErrInvalidField))
		})
	}
	assert.NoError(t, ToolFields{Category: Ptr(CategoryLadder), Condition: Ptr(ConditionGood)}.Validate())
}

func TestEnums_LabelsAndAttention(t *testing.T) {
	assert.Equal(t, "Messgerät", CategoryMeasuring.Label())
	assert.Equal(t, "Außenlager", LocationOutdoor.Label())
	assert.Equal(t, "unbekannt", ToolCategory("unbekannt").Label())

	for _, c := range []ToolCondition{ConditionNew, ConditionVeryGood, ConditionGood, ConditionWorn} {
		assert.False(t, c.NeedsAttention(), c)
	}
	assert.True(t, ConditionNeedsRepair.NeedsAttention())
	assert.True(t, ConditionDefective.NeedsAttention())
}

func TestEmployeeFields_FullName(t *testing.T) {
	assert.Equal(t, "Anna Schmidt", EmployeeFields{FirstName: Ptr("Anna"), LastName: Ptr("Schmidt")}.FullName())
	assert.Equal(t, "Schmidt", EmployeeFields{LastName: Ptr("Schmidt")}.FullName())
	assert.Equal(t, "", EmployeeFields{}.FullName())
}
