package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/db"
)

type MutationLogController struct{ *Srv }

func NewMutationLogController(s *Srv) *MutationLogController { return &MutationLogController{Srv: s} }

// GET /api/admin/mutations?kind=checkout&recordId=&limit=100
func (mc *MutationLogController) List(c *gin.Context) {
	if mc.Repo == nil {
		c.JSON(http.StatusNotImplemented, app.H{"error": "audit log needs a database"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	rows, err := mc.Repo.ListMutations(c.Request.Context(), db.MutationQuery{
		Kind:     c.Query("kind"),
		RecordID: c.Query("recordId"),
		Limit:    limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}
