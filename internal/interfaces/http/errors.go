package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	var validation *entity.ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, entity.ErrNumberMismatch),
		errors.Is(err, entity.ErrInvalidLogo),
		errors.Is(err, entity.ErrLogoTooLarge),
		errors.Is(err, entity.ErrInvalidSinkURL):
		return http.StatusBadRequest
	case entity.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrSinkNotConfigured),
		errors.Is(err, entity.ErrNothingToSync),
		errors.Is(err, entity.ErrNothingToExport):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Internal errors are logged and not echoed.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	resp := Response{Success: false, Error: err.Error()}

	var validation *entity.ValidationError
	if errors.As(err, &validation) {
		resp.Details = validation.Fields
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err)
		resp.Error = "internal error"
	}

	c.JSON(status, resp)
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}
