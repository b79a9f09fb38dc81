package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// the record store expects prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Record is the envelope every record kind shares.
type Record[F any] struct {
	ID        string     `json:"record_id"`
	CreatedAt Timestamp  `json:"createdat"`
	UpdatedAt *Timestamp `json:"updatedat"`
	Fields    F          `json:"fields"`
}

type (
	Employee        = Record[EmployeeFields]
	Tool            = Record[ToolFields]
	StorageLocation = Record[LocationFields]
	Checkout        = Record[CheckoutFields]
	Return          = Record[ReturnFields]
)

// Mitarbeiter
type EmployeeFields struct {
	FirstName      *string     `json:"vorname,omitempty" gorm:"column:vorname;size:120"`
	LastName       *string     `json:"nachname,omitempty" gorm:"column:nachname;size:120"`
	PersonnelNo    *string     `json:"personalnummer,omitempty" gorm:"column:personalnummer;size:60"`
	Department     *Department `json:"abteilung,omitempty" gorm:"column:abteilung;size:40"`
	Phone          *string     `json:"telefonnummer,omitempty" gorm:"column:telefonnummer;size:60"`
	Email          *string     `json:"email,omitempty" gorm:"column:email;size:255"`
	Notes          *string     `json:"notizen_mitarbeiter,omitempty" gorm:"column:notizen_mitarbeiter;type:text"`
}

// FullName joins first and last name; empty when neither is set.
func (f EmployeeFields) FullName() string {
	return strings.TrimSpace(deref(f.FirstName) + " " + deref(f.LastName))
}

func (f EmployeeFields) Validate() error {
	if f.Department != nil && !f.Department.Valid() {
		return fmt.Errorf("%w: abteilung %q", ErrInvalidField, *f.Department)
	}
	return nil
}

// Werkzeuge
type ToolFields struct {
	Designation    *string          `json:"bezeichnung,omitempty" gorm:"column:bezeichnung;size:200"`
	Manufacturer   *string          `json:"hersteller,omitempty" gorm:"column:hersteller;size:120"`
	ModelNo        *string          `json:"modellnummer,omitempty" gorm:"column:modellnummer;size:120"`
	SerialNo       *string          `json:"seriennummer,omitempty" gorm:"column:seriennummer;size:120"`
	Category       *ToolCategory    `json:"kategorie,omitempty" gorm:"column:kategorie;size:40"`
	PurchasedOn    *Date            `json:"anschaffungsdatum,omitempty" gorm:"column:anschaffungsdatum;type:date"`
	PurchasePrice  *decimal.Decimal `json:"anschaffungspreis,omitempty" gorm:"column:anschaffungspreis;type:numeric(12,2)"`
	Location       *string          `json:"aktueller_lagerort,omitempty" gorm:"column:aktueller_lagerort;size:255"`
	Condition      *ToolCondition   `json:"zustand,omitempty" gorm:"column:zustand;size:40"`
	InspectionDuty *bool            `json:"pruefpflicht,omitempty" gorm:"column:pruefpflicht"`
	NextInspection *Date            `json:"naechster_prueftermin,omitempty" gorm:"column:naechster_prueftermin;type:date"`
	Notes          *string          `json:"notizen,omitempty" gorm:"column:notizen;type:text"`
	Photo          *string          `json:"foto,omitempty" gorm:"column:foto;size:1024"`
}

func (f ToolFields) Name() string { return deref(f.Designation) }

// RequiresInspection is the pruefpflicht flag; absent means false.
func (f ToolFields) RequiresInspection() bool { return f.InspectionDuty != nil && *f.InspectionDuty }

func (f ToolFields) Validate() error {
	if f.Category != nil && !f.Category.Valid() {
		return fmt.Errorf("%w: kategorie %q", ErrInvalidField, *f.Category)
	}
	if f.Condition != nil && !f.Condition.Valid() {
		return fmt.Errorf("%w: zustand %q", ErrInvalidField, *f.Condition)
	}
	if f.PurchasePrice != nil && f.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: anschaffungspreis must not be negative", ErrInvalidField)
	}
	return nil
}

// Lagerorte
type LocationFields struct {
	Name        *string       `json:"ortsbezeichnung,omitempty" gorm:"column:ortsbezeichnung;size:200"`
	Description *string       `json:"beschreibung,omitempty" gorm:"column:beschreibung;type:text"`
	Type        *LocationType `json:"typ,omitempty" gorm:"column:typ;size:40"`
}

func (f LocationFields) Validate() error {
	if f.Type != nil && !f.Type.Valid() {
		return fmt.Errorf("%w: typ %q", ErrInvalidField, *f.Type)
	}
	return nil
}

// Werkzeugausgabe
type CheckoutFields struct {
	Employee      *string    `json:"mitarbeiter,omitempty" gorm:"column:mitarbeiter;size:255"`
	Tool          *string    `json:"werkzeug,omitempty" gorm:"column:werkzeug;size:255;index"`
	IssuedAt      *Timestamp `json:"ausgabedatum,omitempty" gorm:"column:ausgabedatum;type:timestamptz"`
	PlannedReturn *Date      `json:"geplantes_rueckgabedatum,omitempty" gorm:"column:geplantes_rueckgabedatum;type:date"`
	Purpose       *string    `json:"verwendungszweck,omitempty" gorm:"column:verwendungszweck;size:255"`
	Notes         *string    `json:"notizen,omitempty" gorm:"column:notizen;type:text"`
	Image1        *string    `json:"bild_1,omitempty" gorm:"column:bild_1;size:1024"`
	Image2        *string    `json:"bild_2,omitempty" gorm:"column:bild_2;size:1024"`
	Image3        *string    `json:"bild_3,omitempty" gorm:"column:bild_3;size:1024"`
	Document1     *string    `json:"dokument_1,omitempty" gorm:"column:dokument_1;size:1024"`
	Document2     *string    `json:"dokument_2,omitempty" gorm:"column:dokument_2;size:1024"`
}

func (f CheckoutFields) Validate() error { return nil }

// Werkzeugrueckgabe
type ReturnFields struct {
	Checkout   *string          `json:"ausgabe,omitempty" gorm:"column:ausgabe;size:255;index"`
	ReturnedAt *Timestamp       `json:"rueckgabedatum,omitempty" gorm:"column:rueckgabedatum;type:timestamptz"`
	Location   *string          `json:"rueckgabe_lagerort,omitempty" gorm:"column:rueckgabe_lagerort;size:255"`
	Condition  *ReturnCondition `json:"zustand_bei_rueckgabe,omitempty" gorm:"column:zustand_bei_rueckgabe;size:40"`
	Damage     *string          `json:"beschaedigungen,omitempty" gorm:"column:beschaedigungen;type:text"`
	Notes      *string          `json:"notizen_rueckgabe,omitempty" gorm:"column:notizen_rueckgabe;type:text"`
}

func (f ReturnFields) Validate() error {
	if f.Condition != nil && !f.Condition.Valid() {
		return fmt.Errorf("%w: zustand_bei_rueckgabe %q", ErrInvalidField, *f.Condition)
	}
	return nil
}

var ErrInvalidField = errors.New("invalid field")

// Fields is satisfied by every fields struct.
type Fields interface {
	EmployeeFields | ToolFields | LocationFields | CheckoutFields | ReturnFields
	Validate() error
}

// Merge copies the values behind every non-nil pointer field of patch onto
// dst. dst never shares a pointer with patch.
func Merge[F Fields](dst *F, patch F) {
	dv := reflect.ValueOf(dst).Elem()
	pv := reflect.ValueOf(patch)
	for i := 0; i < pv.NumField(); i++ {
		if f := pv.Field(i); f.Kind() == reflect.Pointer && !f.IsNil() {
			v := reflect.New(f.Elem().Type())
			v.Elem().Set(f.Elem())
			dv.Field(i).Set(v)
		}
	}
}

// Clone returns a copy of f that shares no pointers with it.
func Clone[F Fields](f F) F {
	var out F
	Merge(&out, f)
	return out
}

func Ptr[T any](v T) *T { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
