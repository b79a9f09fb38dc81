package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/db"
	"werkzeugverwaltung/models"
	"werkzeugverwaltung/refs"
	"werkzeugverwaltung/services"
	"werkzeugverwaltung/store"
)

// Srv carries what every controller needs.
type Srv struct {
	Refs      refs.Resolver
	Repo      *db.Repo // nil without a database
	Checkouts *services.CheckoutService
	Dashboard *services.DashboardService
	Log       *zap.Logger

	Employees *services.Records[models.EmployeeFields]
	Tools     *services.Records[models.ToolFields]
	Locations *services.Records[models.LocationFields]
}

func GetSrv(a *app.App) *Srv {
	log := a.Log.Named("api")
	return &Srv{
		Refs:      a.Refs,
		Repo:      a.Repo,
		Checkouts: a.Checkouts,
		Dashboard: a.Dashboard,
		Log:       log,
		Employees: services.NewRecords(refs.KindEmployee.String(), a.Store.Employees, a.Audit, log),
		Tools:     services.NewRecords(refs.KindTool.String(), a.Store.Tools, a.Audit, log),
		Locations: services.NewRecords(refs.KindLocation.String(), a.Store.Locations, a.Audit, log),
	}
}

// fail maps gateway and store errors to a status. Anything unknown is a
// record store failure.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, services.ErrInvalidForm):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, services.ErrToolCheckedOut), errors.Is(err, services.ErrAlreadyReturned):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, app.H{"error": err.Error()})
	}
}

// failLoad answers a failed full load; the client offers a retry.
func failLoad(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadGateway, app.H{"error": err.Error(), "retry": true})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, app.H{"error": msg})
}
