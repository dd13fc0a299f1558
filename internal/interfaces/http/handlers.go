package http

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-desk/internal/application/service"
	"github.com/garyjia/invoice-desk/internal/export"
)

// Version is reported by the health endpoint
var Version = "dev"

// DocumentRenderer writes a printable document in one output format
type DocumentRenderer interface {
	Render(w io.Writer, doc export.Document) error
}

// Services groups the application services the handlers call
type Services struct {
	Invoices service.InvoiceService
	Company  service.CompanyService
	Settings service.SettingsService
	Sync     service.SyncService
	Backup   service.BackupService
	Export   service.ExportService
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	pdf      DocumentRenderer
	now      func() time.Time
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, pdf DocumentRenderer, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		pdf:      pdf,
		now:      time.Now,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: h.now().UTC().Format(time.RFC3339),
			Version:   Version,
		},
	})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// attachment sends body as a file download
func attachment(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

// renderDocument writes doc as html (default) or pdf according to ?format=
func (h *Handlers) renderDocument(c *gin.Context, doc export.Document) {
	var buf bytes.Buffer
	switch c.DefaultQuery("format", "html") {
	case "html":
		if err := export.RenderHTML(&buf, doc); err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	case "pdf":
		if err := h.pdf.Render(&buf, doc); err != nil {
			h.fail(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="invoice_`+doc.InvoiceNumber+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		h.badRequest(c, "format must be html or pdf")
	}
}
