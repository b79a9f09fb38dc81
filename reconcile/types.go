package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"werkzeugverwaltung/models"
)

const (
	DefaultInspectionHorizonDays = 30
	DefaultActivityLimit         = 10
	DefaultLocationLimit         = 6
	DefaultCategoryLimit         = 4
)

type Options struct {
	Now  time.Time
	Zone *time.Location // nil means models.Zone()

	// InspectionHorizonDays includes the boundary day.
	InspectionHorizonDays int
	ActivityLimit         int
	LocationLimit         int
	CategoryLimit         int
}

func DefaultOptions(now time.Time) Options {
	return Options{
		Now:                   now,
		InspectionHorizonDays: DefaultInspectionHorizonDays,
		ActivityLimit:         DefaultActivityLimit,
		LocationLimit:         DefaultLocationLimit,
		CategoryLimit:         DefaultCategoryLimit,
	}
}

func (o Options) withDefaults() Options {
	if o.Zone == nil {
		o.Zone = models.Zone()
	}
	if o.InspectionHorizonDays <= 0 {
		o.InspectionHorizonDays = DefaultInspectionHorizonDays
	}
	if o.ActivityLimit <= 0 {
		o.ActivityLimit = DefaultActivityLimit
	}
	if o.LocationLimit <= 0 {
		o.LocationLimit = DefaultLocationLimit
	}
	if o.CategoryLimit <= 0 {
		o.CategoryLimit = DefaultCategoryLimit
	}
	return o
}

// CheckoutView is a checkout joined with its tool and employee. Tool and
// Employee are nil when the reference does not resolve in the snapshot.
type CheckoutView struct {
	Checkout      models.Checkout  `json:"checkout"`
	Tool          *models.Tool     `json:"tool"`
	Employee      *models.Employee `json:"employee"`
	IssuedAt      time.Time        `json:"issuedAt"`
	PlannedReturn *models.Date     `json:"plannedReturn"`
	Overdue       bool             `json:"overdue"`
	DaysOverdue   int              `json:"daysOverdue"`
}

type InspectionView struct {
	Tool    models.Tool `json:"tool"`
	DueOn   models.Date `json:"dueOn"`
	Overdue bool        `json:"overdue"`
	// DaysLeft is negative once the inspection is overdue.
	DaysLeft int `json:"daysLeft"`
}

type EventType string

const (
	EventCheckout EventType = "checkout"
	EventReturn   EventType = "return"
)

type ActivityItem struct {
	ID       string           `json:"id"`
	Type     EventType        `json:"type"`
	RecordID string           `json:"recordId"`
	At       time.Time        `json:"at"`
	Tool     *models.Tool     `json:"tool"`
	Employee *models.Employee `json:"employee"`
}

// LocationCount counts tools per current location; Location is nil for
// tools without a resolvable location.
type LocationCount struct {
	Location *models.StorageLocation `json:"location"`
	Count    int                     `json:"count"`
}

type CategoryCount struct {
	Category models.ToolCategory `json:"category"`
	Count    int                 `json:"count"`
}

// ToolState is either available or checked out by CheckoutID.
type ToolState struct {
	CheckedOut bool   `json:"checkedOut"`
	CheckoutID string `json:"checkoutId,omitempty"`
}

// ToolConflict is a tool with more than one open checkout.
type ToolConflict struct {
	ToolID      string   `json:"toolId"`
	CheckoutIDs []string `json:"checkoutIds"`
}

// ReturnConflict is a checkout referenced by more than one return.
type ReturnConflict struct {
	CheckoutID string   `json:"checkoutId"`
	ReturnIDs  []string `json:"returnIds"`
}

type Anomalies struct {
	ConcurrentCheckouts []ToolConflict   `json:"concurrentCheckouts"`
	MultipleReturns     []ReturnConflict `json:"multipleReturns"`
}

type KPIs struct {
	TotalTools        int             `json:"totalTools"`
	CheckedOut        int             `json:"checkedOut"`
	Available         int             `json:"available"`
	Overdue           int             `json:"overdue"`
	InspectionIssues  int             `json:"inspectionIssues"`
	InspectionOverdue int             `json:"inspectionOverdue"`
	NeedsRepair       int             `json:"needsRepair"`
	InventoryValue    decimal.Decimal `json:"inventoryValue"`
}

type Result struct {
	Today             models.Date          `json:"today"`
	HorizonDays       int                  `json:"horizonDays"`
	Open              []CheckoutView       `json:"open"`
	Overdue           []CheckoutView       `json:"overdue"`
	Inspections       []InspectionView     `json:"inspections"`
	InspectionOverdue []InspectionView     `json:"inspectionOverdue"`
	NeedsRepair       []models.Tool        `json:"needsRepair"`
	Activity          []ActivityItem       `json:"activity"`
	ToolsByLocation   []LocationCount      `json:"toolsByLocation"`
	OpenByCategory    []CategoryCount      `json:"openByCategory"`
	ToolStates        map[string]ToolState `json:"toolStates"`
	Anomalies         Anomalies            `json:"anomalies"`
	KPIs              KPIs                 `json:"kpis"`

	idx index
}

// State is the availability of toolID; unknown tools are available.
func (r *Result) State(toolID string) ToolState { return r.ToolStates[toolID] }

func (r *Result) Employee(id string) *models.Employee        { return r.idx.employees[id] }
func (r *Result) Tool(id string) *models.Tool                { return r.idx.tools[id] }
func (r *Result) Location(id string) *models.StorageLocation { return r.idx.locations[id] }
func (r *Result) Checkout(id string) *models.Checkout        { return r.idx.checkouts[id] }

// IsOpen reports whether checkout id exists and has no return.
func (r *Result) IsOpen(id string) bool {
	for _, v := range r.Open {
		if v.Checkout.ID == id {
			return true
		}
	}
	return false
}
