package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSinkNotConfigured is returned when a bulk sync is requested without a sink URL
	ErrSinkNotConfigured = errors.New("replication sink url is not configured")

	// ErrNothingToSync is returned when a bulk sync finds no invoices
	ErrNothingToSync = errors.New("no invoices to sync")

	// ErrNumberMismatch is returned when an update targets a different invoice number than its body
	ErrNumberMismatch = errors.New("invoice number in path and body differ")

	// ErrInvalidLogo is returned for logo payloads that are not decodable images
	ErrInvalidLogo = errors.New("logo is not a supported image")

	// ErrLogoTooLarge is returned for logo payloads above the configured size limit
	ErrLogoTooLarge = errors.New("logo exceeds size limit")

	// ErrInvalidSinkURL is returned for sink endpoints that are not absolute http(s) URLs
	ErrInvalidSinkURL = errors.New("sink url must be an absolute http or https url")

	// ErrNothingToExport is returned when a tabular export finds no invoices
	ErrNothingToExport = errors.New("no invoices to export")
)

// FieldError describes one rejected draft field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a draft is missing required fields.
// Nothing is persisted when it occurs.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Reason))
	}
	return "invalid invoice: " + strings.Join(parts, ", ")
}

// NotFoundError is returned when an operation targets a missing invoice number
type NotFoundError struct {
	InvoiceNumber string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invoice %s not found", e.InvoiceNumber)
}

// StorageError wraps a serialization or persistence failure of the local store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SinkDispatchError wraps a failed forward to the replication sink.
// It is never fatal to the local mutation it accompanies.
type SinkDispatchError struct {
	Action string
	Err    error
}

func (e *SinkDispatchError) Error() string {
	return fmt.Sprintf("sink dispatch %s failed: %v", e.Action, e.Err)
}

func (e *SinkDispatchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
