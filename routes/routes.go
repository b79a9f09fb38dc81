package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/controllers"
	"werkzeugverwaltung/models"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// controllers and shared middleware
	s := controllers.GetSrv(a)
	dash := controllers.NewDashboardController(s)
	co := controllers.NewCheckoutController(s)
	audit := controllers.NewMutationLogController(s)

	authMW := app.AuthRequired(a.Config)
	adminMW := app.AdminOnly()

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	api := r.Group("/api", authMW)

	// dashboard
	api.GET("/settings", co.Settings)
	d := api.Group("/dashboard")
	{
		d.GET("", dash.Overview) // ?horizon=
		d.GET("/overdue", dash.Overdue)
		d.GET("/inspections", dash.Inspections) // ?horizon=
		d.GET("/repairs", dash.Repairs)
		d.GET("/activity", dash.Activity) // ?limit=
	}
	api.GET("/tools/:id/status", dash.ToolStatus)

	// master data
	registerRecords(api, adminMW, "/employees", controllers.NewRecordController[models.EmployeeFields](s.Employees))
	registerRecords(api, adminMW, "/tools", controllers.NewRecordController[models.ToolFields](s.Tools))
	registerRecords(api, adminMW, "/locations", controllers.NewRecordController[models.LocationFields](s.Locations))

	// checkouts and returns
	checkouts := api.Group("/checkouts")
	{
		checkouts.GET("", co.ListCheckouts)
		checkouts.GET("/:id", co.GetCheckout)
		checkouts.POST("", co.Issue)
		checkouts.PATCH("/:id", co.UpdateCheckout)
		checkouts.DELETE("/:id", adminMW, co.DeleteCheckout)
	}
	returns := api.Group("/returns")
	{
		returns.GET("", co.ListReturns)
		returns.GET("/:id", co.GetReturn)
		returns.POST("", co.Return)
		returns.PATCH("/:id", co.UpdateReturn)
		returns.DELETE("/:id", adminMW, co.DeleteReturn)
	}

	// audit log (admin only)
	api.GET("/admin/mutations", adminMW, audit.List)
}

type recordHandlers interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerRecords(api *gin.RouterGroup, adminMW gin.HandlerFunc, path string, h recordHandlers) {
	g := api.Group(path)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", adminMW, h.Delete)
}
