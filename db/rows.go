package db

import (
	"time"

	"werkzeugverwaltung/models"
)

const (
	TableEmployees = "wz_employees"
	TableTools     = "wz_tools"
	TableLocations = "wz_locations"
	TableCheckouts = "wz_checkouts"
	TableReturns   = "wz_returns"
)

// row is the table shape of one record kind: envelope columns plus the
// fields struct flattened into columns.
type row[F models.Fields] struct {
	ID        string    `gorm:"primaryKey;size:24"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
	Fields    F `gorm:"embedded"`
}

func (row[F]) TableName() string {
	var f F
	switch any(f).(type) {
	case models.EmployeeFields:
		return TableEmployees
	case models.ToolFields:
		return TableTools
	case models.LocationFields:
		return TableLocations
	case models.CheckoutFields:
		return TableCheckouts
	default:
		return TableReturns
	}
}

func (r row[F]) record() models.Record[F] {
	out := models.Record[F]{
		ID:        r.ID,
		CreatedAt: models.NewTimestamp(r.CreatedAt),
		Fields:    r.Fields,
	}
	if !r.UpdatedAt.IsZero() && !r.UpdatedAt.Equal(r.CreatedAt) {
		u := models.NewTimestamp(r.UpdatedAt)
		out.UpdatedAt = &u
	}
	return out
}
