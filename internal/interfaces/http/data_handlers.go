package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/garyjia/invoice-desk/internal/export"
)

// maxUploadBytes caps how much of an uploaded logo is read; the service applies the real limit
const maxUploadBytes = 16 << 20

// SinkSettings is the body of the sink settings endpoints
type SinkSettings struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// GetCompany handles GET /api/company
func (h *Handlers) GetCompany(c *gin.Context) {
	info, err := h.services.Company.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}

// SaveCompany handles PUT /api/company
func (h *Handlers) SaveCompany(c *gin.Context) {
	var info entity.CompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		h.badRequest(c, "invalid company body")
		return
	}

	saved, err := h.services.Company.Save(c.Request.Context(), info)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, saved)
}

// UploadLogo handles POST /api/company/logo with a multipart "logo" file
func (h *Handlers) UploadLogo(c *gin.Context) {
	header, err := c.FormFile("logo")
	if err != nil {
		h.badRequest(c, "missing logo file")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.fail(c, err)
		return
	}

	info, err := h.services.Company.SetLogo(c.Request.Context(), data)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}

// GetSinkSettings handles GET /api/settings/sink
func (h *Handlers) GetSinkSettings(c *gin.Context) {
	url, err := h.services.Settings.SinkURL(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, SinkSettings{URL: url, Enabled: url != ""})
}

// SaveSinkSettings handles PUT /api/settings/sink
func (h *Handlers) SaveSinkSettings(c *gin.Context) {
	var body SinkSettings
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid settings body")
		return
	}

	url, err := h.services.Settings.SetSinkURL(c.Request.Context(), body.URL)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, SinkSettings{URL: url, Enabled: url != ""})
}

// SyncAll handles POST /api/sync
func (h *Handlers) SyncAll(c *gin.Context) {
	report, err := h.services.Sync.SyncAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, report)
}

// ExportXLSX handles GET /api/export/xlsx
func (h *Handlers) ExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.services.Export.WriteXLSX(c.Request.Context(), &buf)
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name, buf.Bytes())
}

// ExportCSV handles GET /api/export/csv
func (h *Handlers) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.services.Export.WriteCSV(c.Request.Context(), &buf)
	if err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, "text/csv; charset=utf-8", name, buf.Bytes())
}

// ExportBackup handles GET /api/backup
func (h *Handlers) ExportBackup(c *gin.Context) {
	backup, err := h.services.Backup.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBackup(&buf, backup); err != nil {
		h.fail(c, err)
		return
	}
	attachment(c, "application/json", export.BackupFilename(backup.ExportDate), buf.Bytes())
}

// ImportBackup handles POST /api/backup
func (h *Handlers) ImportBackup(c *gin.Context) {
	backup, err := export.ReadBackup(c.Request.Body)
	if err != nil {
		h.badRequest(c, "invalid backup document")
		return
	}

	if err := h.services.Backup.Import(c.Request.Context(), backup); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"invoices":    len(backup.Invoices),
		"companyInfo": backup.CompanyInfo != nil,
	})
}

// ClearAll handles DELETE /api/data
func (h *Handlers) ClearAll(c *gin.Context) {
	if err := h.services.Backup.ClearAll(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}
