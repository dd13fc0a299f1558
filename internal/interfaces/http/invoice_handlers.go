package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-desk/internal/domain/billing"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// SaveInvoiceResponse is returned by invoice create and update
type SaveInvoiceResponse struct {
	Invoice entity.InvoiceRecord `json:"invoice"`
	Created bool                 `json:"created"`
}

// ListInvoices handles GET /api/invoices?q=
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.services.Invoices.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, invoices)
}

// NewDraft handles POST /api/invoices/draft
func (h *Handlers) NewDraft(c *gin.Context) {
	draft, err := h.services.Invoices.NewDraft(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, draft)
}

// PreviewInvoice handles POST /api/invoices/preview?format=html|pdf
func (h *Handlers) PreviewInvoice(c *gin.Context) {
	var draft billing.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, "invalid invoice body")
		return
	}

	doc, err := h.services.Invoices.Preview(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderDocument(c, doc)
}

// CreateInvoice handles POST /api/invoices. An existing number is updated in place.
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var draft billing.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, "invalid invoice body")
		return
	}

	record, created, err := h.services.Invoices.Save(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, SaveInvoiceResponse{Invoice: record, Created: created})
}

// GetInvoice handles GET /api/invoices/:number
func (h *Handlers) GetInvoice(c *gin.Context) {
	record, err := h.services.Invoices.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, record)
}

// UpdateInvoice handles PUT /api/invoices/:number
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	var draft billing.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.badRequest(c, "invalid invoice body")
		return
	}

	record, err := h.services.Invoices.Update(c.Request.Context(), c.Param("number"), draft)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, SaveInvoiceResponse{Invoice: record})
}

// DeleteInvoice handles DELETE /api/invoices/:number
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.services.Invoices.Delete(c.Request.Context(), c.Param("number")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// PrintInvoice handles GET /api/invoices/:number/print?format=html|pdf
func (h *Handlers) PrintInvoice(c *gin.Context) {
	doc, err := h.services.Invoices.Printable(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderDocument(c, doc)
}
