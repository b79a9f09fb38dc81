package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/services"
)

// BootstrapDemoData fills an empty store with a small workshop so the
// dashboard has something to show. It only runs with SEED_DEMO=true.
func BootstrapDemoData(ctx context.Context, a *App) error {
	if !a.Config.SeedDemo {
		return nil
	}
	existing, err := a.Store.Tools.List(ctx)
	if err != nil {
		return fmt.Errorf("check tools: %w", err)
	}
	if len(existing) > 0 {
		a.Log.Info("demo data skipped, store not empty", zap.Int("tools", len(existing)))
		return nil
	}
	ctx = services.WithActor(ctx, "bootstrap")
	now := time.Now()
	today := models.DateOf(now.In(models.Zone()))

	werkstatt, err := a.Store.Locations.Create(ctx, models.LocationFields{
		Name: models.Ptr("Werkstatt Halle 1"), Type: models.Ptr(models.LocationWorkshop),
	})
	if err != nil {
		return err
	}
	bus, err := a.Store.Locations.Create(ctx, models.LocationFields{
		Name: models.Ptr("Servicewagen 3"), Type: models.Ptr(models.LocationVehicle),
	})
	if err != nil {
		return err
	}

	emp, err := a.Store.Employees.Create(ctx, models.EmployeeFields{
		FirstName: models.Ptr("Jana"), LastName: models.Ptr("Keller"),
		PersonnelNo: models.Ptr("M-1042"), Department: models.Ptr(models.DepartmentElectrical),
	})
	if err != nil {
		return err
	}

	tools := []models.ToolFields{
		{
			Designation: models.Ptr("Bohrhammer SDS-plus"), Manufacturer: models.Ptr("Bosch"),
			Category: models.Ptr(models.CategoryPowerTool), Condition: models.Ptr(models.ConditionGood),
			PurchasePrice: models.Ptr(decimal.RequireFromString("389.00")),
			Location:      a.Refs.Ref(refs.KindLocation, werkstatt.ID),
		},
		{
			Designation: models.Ptr("Installationstester"), Manufacturer: models.Ptr("Fluke"),
			Category: models.Ptr(models.CategoryTester), Condition: models.Ptr(models.ConditionVeryGood),
			InspectionDuty: models.Ptr(true), NextInspection: models.Ptr(today.AddDays(12)),
			PurchasePrice: models.Ptr(decimal.RequireFromString("1499.00")),
			Location:      a.Refs.Ref(refs.KindLocation, bus.ID),
		},
		{
			Designation: models.Ptr("Stehleiter 6 Stufen"), Category: models.Ptr(models.CategoryLadder),
			Condition:      models.Ptr(models.ConditionNeedsRepair),
			InspectionDuty: models.Ptr(true), NextInspection: models.Ptr(today.AddDays(-3)),
			Location:       a.Refs.Ref(refs.KindLocation, werkstatt.ID),
		},
	}
	var first string
	for i, f := range tools {
		t, err := a.Store.Tools.Create(ctx, f)
		if err != nil {
			return err
		}
		if i == 0 {
			first = t.ID
		}
	}

	if _, err := a.Checkouts.Issue(ctx, services.CheckoutForm{
		ToolID:        first,
		EmployeeID:    emp.ID,
		IssuedAt:      models.Ptr(models.NewTimestamp(now.AddDate(0, 0, -5))),
		PlannedReturn: models.Ptr(today.AddDays(-1)),
		Purpose:       models.Ptr("Baustelle Lindenstraße"),
	}); err != nil {
		return err
	}
	a.Log.Info("demo data created", zap.Int("tools", len(tools)))
	return nil
}
