package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/reconcile"
	"werkzeugverwaltung/services"
)

const maxHorizonDays = 365

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

// load parses ?horizon= and ?limit= and runs the reconciliation. It writes
// the error response itself and returns nil then.
func (dc *DashboardController) load(c *gin.Context) (*reconcile.Result, presenter) {
	var opts services.DashboardOptions
	if v := c.Query("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHorizonDays {
			badRequest(c, "horizon must be between 1 and 365 days")
			return nil, presenter{}
		}
		opts.InspectionHorizonDays = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			badRequest(c, "limit must be between 1 and 100")
			return nil, presenter{}
		}
		opts.ActivityLimit = n
	}
	res, err := dc.Dashboard.Load(c.Request.Context(), opts)
	if err != nil {
		failLoad(c, err)
		return nil, presenter{}
	}
	return res, presenter{refs: dc.Refs, res: res}
}

// GET /api/dashboard?horizon=30
func (dc *DashboardController) Overview(c *gin.Context) {
	res, p := dc.load(c)
	if res == nil {
		return
	}
	c.JSON(http.StatusOK, app.H{
		"today":             res.Today,
		"horizonDays":       res.HorizonDays,
		"kpis":              res.KPIs,
		"open":              p.checkouts(res.Open),
		"overdue":           p.checkouts(res.Overdue),
		"inspections":       p.inspections(res.Inspections),
		"inspectionOverdue": p.inspections(res.InspectionOverdue),
		"needsRepair":       p.tools(res.NeedsRepair),
		"activity":          p.activity(res.Activity),
		"toolsByLocation":   p.locations(res.ToolsByLocation),
		"openByCategory":    p.categories(res.OpenByCategory),
		"anomalies":         res.Anomalies,
	})
}

func (dc *DashboardController) Overdue(c *gin.Context) {
	res, p := dc.load(c)
	if res == nil {
		return
	}
	c.JSON(http.StatusOK, app.H{"items": p.checkouts(res.Overdue)})
}

func (dc *DashboardController) Inspections(c *gin.Context) {
	res, p := dc.load(c)
	if res == nil {
		return
	}
	c.JSON(http.StatusOK, app.H{
		"horizonDays": res.HorizonDays,
		"items":       p.inspections(res.Inspections),
		"overdue":     p.inspections(res.InspectionOverdue),
	})
}

func (dc *DashboardController) Repairs(c *gin.Context) {
	res, p := dc.load(c)
	if res == nil {
		return
	}
	c.JSON(http.StatusOK, app.H{"items": p.tools(res.NeedsRepair)})
}

// GET /api/dashboard/activity?limit=10
func (dc *DashboardController) Activity(c *gin.Context) {
	res, p := dc.load(c)
	if res == nil {
		return
	}
	c.JSON(http.StatusOK, app.H{"items": p.activity(res.Activity)})
}

// GET /api/tools/:id/status
func (dc *DashboardController) ToolStatus(c *gin.Context) {
	id := c.Param("id")
	res, p := dc.load(c)
	if res == nil {
		return
	}
	t := res.Tool(id)
	if t == nil {
		c.JSON(http.StatusNotFound, app.H{"error": "tool not found"})
		return
	}
	st := res.State(id)
	out := app.H{
		"toolId":   id,
		"toolName": toolName(t),
		"location": p.location(t.Fields.Location),
		"state":    "available",
	}
	if st.CheckedOut {
		out["state"] = "checked_out"
		out["checkoutId"] = st.CheckoutID
		for _, v := range p.checkouts(res.Open) {
			if v.ID == st.CheckoutID {
				out["checkout"] = v
				break
			}
		}
	}
	c.JSON(http.StatusOK, out)
}
