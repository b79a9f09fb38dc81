package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/models"
	"werkzeugverwaltung/services"
)

// RecordController serves plain CRUD for employees, tools and locations.
// Request bodies are the fields object of the record kind.
type RecordController[F models.Fields] struct {
	svc *services.Records[F]
}

func NewRecordController[F models.Fields](svc *services.Records[F]) *RecordController[F] {
	return &RecordController[F]{svc: svc}
}

func (rc *RecordController[F]) List(c *gin.Context) {
	rs, err := rc.svc.List(c.Request.Context())
	if err != nil {
		failLoad(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rs})
}

func (rc *RecordController[F]) Get(c *gin.Context) {
	r, err := rc.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rc *RecordController[F]) Create(c *gin.Context) {
	var in F
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := rc.svc.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (rc *RecordController[F]) Update(c *gin.Context) {
	var in F
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := rc.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rc *RecordController[F]) Delete(c *gin.Context) {
	if err := rc.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
