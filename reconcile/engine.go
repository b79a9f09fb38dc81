// Package reconcile derives open, overdue and attention lists from a store
// snapshot. It does no I/O; the same snapshot and options always give the
// same result.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/store"
)

type Engine struct {
	refs refs.Resolver
}

func New(r refs.Resolver) *Engine { return &Engine{refs: r} }

type index struct {
	employees map[string]*models.Employee
	tools     map[string]*models.Tool
	locations map[string]*models.StorageLocation
	checkouts map[string]*models.Checkout
}

func buildIndex(s *store.Snapshot) *index {
	idx := &index{
		employees: make(map[string]*models.Employee, len(s.Employees)),
		tools:     make(map[string]*models.Tool, len(s.Tools)),
		locations: make(map[string]*models.StorageLocation, len(s.Locations)),
		checkouts: make(map[string]*models.Checkout, len(s.Checkouts)),
	}
	for i := range s.Employees {
		idx.employees[s.Employees[i].ID] = &s.Employees[i]
	}
	for i := range s.Tools {
		idx.tools[s.Tools[i].ID] = &s.Tools[i]
	}
	for i := range s.Locations {
		idx.locations[s.Locations[i].ID] = &s.Locations[i]
	}
	for i := range s.Checkouts {
		idx.checkouts[s.Checkouts[i].ID] = &s.Checkouts[i]
	}
	return idx
}

func (e *Engine) Run(s *store.Snapshot, opts Options) *Result {
	if s == nil {
		s = &store.Snapshot{}
	}
	opts = opts.withDefaults()
	today := models.DateOf(opts.Now.In(opts.Zone))
	idx := buildIndex(s)

	res := &Result{
		Today:       today,
		HorizonDays: opts.InspectionHorizonDays,
		ToolStates:  map[string]ToolState{},
		idx:         *idx,
	}

	returnsByCheckout := e.returnsByCheckout(s.Returns)
	res.Open = e.openCheckouts(s.Checkouts, returnsByCheckout, idx, today)
	res.Overdue = overdue(res.Open)
	res.Inspections, res.InspectionOverdue = inspections(s.Tools, today, opts.InspectionHorizonDays)
	res.NeedsRepair = needsRepair(s.Tools)
	res.Activity = e.activity(s, idx, opts.ActivityLimit)
	res.ToolsByLocation = e.toolsByLocation(s.Tools, idx, opts.LocationLimit)
	res.OpenByCategory = openByCategory(res.Open, opts.CategoryLimit)
	res.Anomalies.MultipleReturns = multipleReturns(returnsByCheckout)
	res.Anomalies.ConcurrentCheckouts = e.toolStates(res, idx)
	res.KPIs = kpis(res, s.Tools)
	return res
}

// returnsByCheckout maps checkout id to the ids of returns referencing it.
func (e *Engine) returnsByCheckout(returns []models.Return) map[string][]string {
	out := make(map[string][]string, len(returns))
	for _, r := range returns {
		if id, ok := e.refs.ID(r.Fields.Checkout, refs.KindCheckout); ok {
			out[id] = append(out[id], r.ID)
		}
	}
	return out
}

func (e *Engine) openCheckouts(checkouts []models.Checkout, returned map[string][]string, idx *index, today models.Date) []CheckoutView {
	open := make([]CheckoutView, 0, len(checkouts))
	for _, c := range checkouts {
		if _, ok := returned[c.ID]; ok {
			continue
		}
		v := CheckoutView{
			Checkout: c,
			IssuedAt: issuedAt(c),
		}
		if id, ok := e.refs.ID(c.Fields.Tool, refs.KindTool); ok {
			v.Tool = idx.tools[id]
		}
		if id, ok := e.refs.ID(c.Fields.Employee, refs.KindEmployee); ok {
			v.Employee = idx.employees[id]
		}
		if c.Fields.PlannedReturn.Valid() {
			planned := *c.Fields.PlannedReturn
			v.PlannedReturn = &planned
			if planned.Before(today) {
				v.Overdue = true
				v.DaysOverdue = planned.DaysUntil(today)
			}
		}
		open = append(open, v)
	}
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		if !a.IssuedAt.Equal(b.IssuedAt) {
			return a.IssuedAt.After(b.IssuedAt)
		}
		return a.Checkout.ID < b.Checkout.ID
	})
	return open
}

func overdue(open []CheckoutView) []CheckoutView {
	out := make([]CheckoutView, 0)
	for _, v := range open {
		if v.Overdue {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := *out[i].PlannedReturn, *out[j].PlannedReturn
		if a != b {
			return a.Before(b)
		}
		return out[i].Checkout.ID < out[j].Checkout.ID
	})
	return out
}

func inspections(tools []models.Tool, today models.Date, horizon int) (all, late []InspectionView) {
	limit := today.AddDays(horizon)
	all = make([]InspectionView, 0)
	for _, t := range tools {
		if !t.Fields.RequiresInspection() || !t.Fields.NextInspection.Valid() {
			continue
		}
		due := *t.Fields.NextInspection
		if due.After(limit) {
			continue
		}
		all = append(all, InspectionView{
			Tool:     t,
			DueOn:    due,
			Overdue:  due.Before(today),
			DaysLeft: today.DaysUntil(due),
		})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].DueOn != all[j].DueOn {
			return all[i].DueOn.Before(all[j].DueOn)
		}
		return all[i].Tool.ID < all[j].Tool.ID
	})
	late = make([]InspectionView, 0)
	for _, v := range all {
		if v.Overdue {
			late = append(late, v)
		}
	}
	return all, late
}

func needsRepair(tools []models.Tool) []models.Tool {
	out := make([]models.Tool, 0)
	for _, t := range tools {
		if t.Fields.Condition != nil && t.Fields.Condition.NeedsAttention() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Fields.Name()), strings.ToLower(out[j].Fields.Name())
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) activity(s *store.Snapshot, idx *index, limit int) []ActivityItem {
	items := make([]ActivityItem, 0, len(s.Checkouts)+len(s.Returns))
	for i := range s.Checkouts {
		c := &s.Checkouts[i]
		it := ActivityItem{ID: "checkout-" + c.ID, Type: EventCheckout, RecordID: c.ID, At: issuedAt(*c)}
		it.Tool, it.Employee = e.parties(c, idx)
		items = append(items, it)
	}
	for _, r := range s.Returns {
		at := r.CreatedAt.Time()
		if r.Fields.ReturnedAt.Valid() {
			at = r.Fields.ReturnedAt.Time()
		}
		it := ActivityItem{ID: "return-" + r.ID, Type: EventReturn, RecordID: r.ID, At: at}
		if id, ok := e.refs.ID(r.Fields.Checkout, refs.KindCheckout); ok {
			if c := idx.checkouts[id]; c != nil {
				it.Tool, it.Employee = e.parties(c, idx)
			}
		}
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].At.Equal(items[j].At) {
			return items[i].At.After(items[j].At)
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (e *Engine) parties(c *models.Checkout, idx *index) (*models.Tool, *models.Employee) {
	var t *models.Tool
	var emp *models.Employee
	if id, ok := e.refs.ID(c.Fields.Tool, refs.KindTool); ok {
		t = idx.tools[id]
	}
	if id, ok := e.refs.ID(c.Fields.Employee, refs.KindEmployee); ok {
		emp = idx.employees[id]
	}
	return t, emp
}

// toolsByLocation groups per location record, so two locations sharing a
// name stay separate rows.
func (e *Engine) toolsByLocation(tools []models.Tool, idx *index, limit int) []LocationCount {
	counts := map[string]int{}
	for _, t := range tools {
		key := ""
		if id, ok := e.refs.ID(t.Fields.Location, refs.KindLocation); ok && idx.locations[id] != nil {
			key = id
		}
		counts[key]++
	}
	out := make([]LocationCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, LocationCount{Location: idx.locations[id], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return locationKey(out[i].Location) < locationKey(out[j].Location)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// locationKey orders named locations by name and puts "no location" last.
func locationKey(l *models.StorageLocation) string {
	if l == nil {
		return "\xff"
	}
	name := ""
	if l.Fields.Name != nil {
		name = strings.ToLower(*l.Fields.Name)
	}
	return name + "\x00" + l.ID
}

func openByCategory(open []CheckoutView, limit int) []CategoryCount {
	counts := map[models.ToolCategory]int{}
	for _, v := range open {
		cat := models.CategoryMiscellanea
		if v.Tool != nil && v.Tool.Fields.Category != nil && *v.Tool.Fields.Category != "" {
			cat = *v.Tool.Fields.Category
		}
		counts[cat]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func multipleReturns(byCheckout map[string][]string) []ReturnConflict {
	out := make([]ReturnConflict, 0)
	for id, rs := range byCheckout {
		if len(rs) > 1 {
			ids := append([]string(nil), rs...)
			sort.Strings(ids)
			out = append(out, ReturnConflict{CheckoutID: id, ReturnIDs: ids})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckoutID < out[j].CheckoutID })
	return out
}

// toolStates fills res.ToolStates from the open checkouts (newest wins) and
// returns the tools holding more than one.
func (e *Engine) toolStates(res *Result, idx *index) []ToolConflict {
	byTool := map[string][]string{}
	for _, v := range res.Open {
		id, ok := e.refs.ID(v.Checkout.Fields.Tool, refs.KindTool)
		if !ok {
			continue
		}
		byTool[id] = append(byTool[id], v.Checkout.ID)
		if _, seen := res.ToolStates[id]; !seen && idx.tools[id] != nil {
			res.ToolStates[id] = ToolState{CheckedOut: true, CheckoutID: v.Checkout.ID}
		}
	}
	for id := range idx.tools {
		if _, ok := res.ToolStates[id]; !ok {
			res.ToolStates[id] = ToolState{}
		}
	}
	out := make([]ToolConflict, 0)
	for id, cs := range byTool {
		if len(cs) > 1 {
			out = append(out, ToolConflict{ToolID: id, CheckoutIDs: cs})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ToolID < out[j].ToolID })
	return out
}

func kpis(res *Result, tools []models.Tool) KPIs {
	k := KPIs{
		TotalTools:        len(tools),
		CheckedOut:        len(res.Open),
		Overdue:           len(res.Overdue),
		InspectionIssues:  len(res.Inspections),
		InspectionOverdue: len(res.InspectionOverdue),
		NeedsRepair:       len(res.NeedsRepair),
		InventoryValue:    decimal.Zero,
	}
	for _, t := range tools {
		if !res.ToolStates[t.ID].CheckedOut {
			k.Available++
		}
		if t.Fields.PurchasePrice != nil {
			k.InventoryValue = k.InventoryValue.Add(*t.Fields.PurchasePrice)
		}
	}
	return k
}

func issuedAt(c models.Checkout) time.Time {
	if c.Fields.IssuedAt.Valid() {
		return c.Fields.IssuedAt.Time()
	}
	return c.CreatedAt.Time()
}
