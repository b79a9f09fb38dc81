package controllers

import (
	"werkzeugverwaltung/models"
	"werkzeugverwaltung/reconcile"
	"werkzeugverwaltung/refs"
)

// Display fallbacks for absent or dangling values.
const (
	UnknownTool     = "Unbekanntes Werkzeug"
	UnknownEmployee = "Unbekannt"
	NoLocation      = "Ohne Standort"
	NoValue         = "–"
)

type checkoutRow struct {
	ID            string `json:"id"`
	ToolID        string `json:"toolId,omitempty"`
	ToolName      string `json:"toolName"`
	EmployeeID    string `json:"employeeId,omitempty"`
	EmployeeName  string `json:"employeeName"`
	IssuedAt      string `json:"issuedAt"`
	PlannedReturn string `json:"plannedReturn"`
	Purpose       string `json:"purpose"`
	Overdue       bool   `json:"overdue"`
	DaysOverdue   int    `json:"daysOverdue,omitempty"`
}

type inspectionRow struct {
	ToolID   string `json:"toolId"`
	ToolName string `json:"toolName"`
	Category string `json:"category"`
	Location string `json:"location"`
	DueOn    string `json:"dueOn"`
	Overdue  bool   `json:"overdue"`
	DaysLeft int    `json:"daysLeft"`
}

type toolRow struct {
	ToolID    string `json:"toolId"`
	ToolName  string `json:"toolName"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Location  string `json:"location"`
}

type activityRow struct {
	ID           string              `json:"id"`
	Type         reconcile.EventType `json:"type"`
	RecordID     string              `json:"recordId"`
	At           string              `json:"at"`
	ToolName     string              `json:"toolName"`
	EmployeeName string              `json:"employeeName"`
}

type locationRow struct {
	LocationID string `json:"locationId,omitempty"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

type categoryRow struct {
	Category models.ToolCategory `json:"category"`
	Label    string              `json:"label"`
	Count    int                 `json:"count"`
}

type presenter struct {
	refs refs.Resolver
	res  *reconcile.Result
}

func toolName(t *models.Tool) string {
	if t == nil || t.Fields.Name() == "" {
		return UnknownTool
	}
	return t.Fields.Name()
}

func employeeName(e *models.Employee) string {
	if e == nil || e.Fields.FullName() == "" {
		return UnknownEmployee
	}
	return e.Fields.FullName()
}

func dateText(d *models.Date) string {
	if !d.Valid() {
		return NoValue
	}
	return d.String()
}

func textOr(s *string) string {
	if s == nil || *s == "" {
		return NoValue
	}
	return *s
}

func (p presenter) location(ref *string) string {
	id, ok := p.refs.ID(ref, refs.KindLocation)
	if !ok {
		return NoLocation
	}
	l := p.res.Location(id)
	if l == nil || l.Fields.Name == nil || *l.Fields.Name == "" {
		return NoLocation
	}
	return *l.Fields.Name
}

func (p presenter) checkouts(vs []reconcile.CheckoutView) []checkoutRow {
	out := make([]checkoutRow, 0, len(vs))
	for _, v := range vs {
		row := checkoutRow{
			ID:            v.Checkout.ID,
			ToolName:      toolName(v.Tool),
			EmployeeName:  employeeName(v.Employee),
			IssuedAt:      NoValue,
			PlannedReturn: dateText(v.PlannedReturn),
			Purpose:       textOr(v.Checkout.Fields.Purpose),
			Overdue:       v.Overdue,
			DaysOverdue:   v.DaysOverdue,
		}
		if v.Tool != nil {
			row.ToolID = v.Tool.ID
		}
		if v.Employee != nil {
			row.EmployeeID = v.Employee.ID
		}
		if !v.IssuedAt.IsZero() {
			row.IssuedAt = models.NewTimestamp(v.IssuedAt).String()
		}
		out = append(out, row)
	}
	return out
}

func (p presenter) inspections(vs []reconcile.InspectionView) []inspectionRow {
	out := make([]inspectionRow, 0, len(vs))
	for _, v := range vs {
		t := v.Tool
		out = append(out, inspectionRow{
			ToolID:   t.ID,
			ToolName: toolName(&t),
			Category: categoryLabel(t.Fields.Category),
			Location: p.location(t.Fields.Location),
			DueOn:    v.DueOn.String(),
			Overdue:  v.Overdue,
			DaysLeft: v.DaysLeft,
		})
	}
	return out
}

func (p presenter) tools(ts []models.Tool) []toolRow {
	out := make([]toolRow, 0, len(ts))
	for i := range ts {
		t := &ts[i]
		row := toolRow{
			ToolID:    t.ID,
			ToolName:  toolName(t),
			Category:  categoryLabel(t.Fields.Category),
			Condition: NoValue,
			Location:  p.location(t.Fields.Location),
		}
		if t.Fields.Condition != nil {
			row.Condition = t.Fields.Condition.Label()
		}
		out = append(out, row)
	}
	return out
}

func (p presenter) activity(items []reconcile.ActivityItem) []activityRow {
	out := make([]activityRow, 0, len(items))
	for _, it := range items {
		out = append(out, activityRow{
			ID:           it.ID,
			Type:         it.Type,
			RecordID:     it.RecordID,
			At:           models.NewTimestamp(it.At).String(),
			ToolName:     toolName(it.Tool),
			EmployeeName: employeeName(it.Employee),
		})
	}
	return out
}

func (p presenter) locations(cs []reconcile.LocationCount) []locationRow {
	out := make([]locationRow, 0, len(cs))
	for _, lc := range cs {
		row := locationRow{Name: NoLocation, Count: lc.Count}
		if lc.Location != nil {
			row.LocationID = lc.Location.ID
			if n := lc.Location.Fields.Name; n != nil && *n != "" {
				row.Name = *n
			}
		}
		out = append(out, row)
	}
	return out
}

func (p presenter) categories(cs []reconcile.CategoryCount) []categoryRow {
	out := make([]categoryRow, 0, len(cs))
	for _, cc := range cs {
		out = append(out, categoryRow{Category: cc.Category, Label: cc.Category.Label(), Count: cc.Count})
	}
	return out
}

func categoryLabel(c *models.ToolCategory) string {
	if c == nil || *c == "" {
		return NoValue
	}
	return c.Label()
}
