package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/services"
)

// CheckoutController writes checkouts and returns through the gateway.
type CheckoutController struct{ *Srv }

func NewCheckoutController(s *Srv) *CheckoutController { return &CheckoutController{Srv: s} }

// Issue and Return read the gateway forms; list/get/delete reuse the record
// paths.
func (cc *CheckoutController) ListCheckouts(c *gin.Context) {
	NewRecordController(cc.Checkouts.Checkouts()).List(c)
}

func (cc *CheckoutController) GetCheckout(c *gin.Context) {
	NewRecordController(cc.Checkouts.Checkouts()).Get(c)
}

// POST /api/checkouts
func (cc *CheckoutController) Issue(c *gin.Context) {
	var in services.CheckoutForm
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	row, err := cc.Checkouts.Issue(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// PATCH /api/checkouts/:id
func (cc *CheckoutController) UpdateCheckout(c *gin.Context) {
	var in services.CheckoutForm
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	row, err := cc.Checkouts.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (cc *CheckoutController) DeleteCheckout(c *gin.Context) {
	if err := cc.Checkouts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CheckoutController) ListReturns(c *gin.Context) {
	NewRecordController(cc.Checkouts.Returns()).List(c)
}

func (cc *CheckoutController) GetReturn(c *gin.Context) {
	NewRecordController(cc.Checkouts.Returns()).Get(c)
}

// POST /api/returns
func (cc *CheckoutController) Return(c *gin.Context) {
	var in services.ReturnForm
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	row, err := cc.Checkouts.Return(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (cc *CheckoutController) UpdateReturn(c *gin.Context) {
	var in services.ReturnForm
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	row, err := cc.Checkouts.UpdateReturn(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (cc *CheckoutController) DeleteReturn(c *gin.Context) {
	if err := cc.Checkouts.DeleteReturn(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/settings: what the client needs to render the forms.
func (cc *CheckoutController) Settings(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"strictCheckouts": cc.Checkouts.Strict()})
}
