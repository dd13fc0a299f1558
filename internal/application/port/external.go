package port

import (
	"context"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// SinkAction names a mutation forwarded to the replication sink
type SinkAction string

const (
	ActionSaveInvoice     SinkAction = "saveInvoice"
	ActionDeleteInvoice   SinkAction = "deleteInvoice"
	ActionSaveCompanyInfo SinkAction = "saveCompanyInfo"
)

// Mutation is the wire body sent to the sink: {action, ...actionSpecificFields}
type Mutation struct {
	Action        SinkAction            `json:"action"`
	Invoice       *entity.InvoiceRecord `json:"invoice,omitempty"`
	InvoiceNumber string                `json:"invoiceNumber,omitempty"`
	CompanyInfo   *entity.CompanyInfo   `json:"companyInfo,omitempty"`
}

// SaveInvoiceMutation builds a saveInvoice forward
func SaveInvoiceMutation(record entity.InvoiceRecord) Mutation {
	r := record.Clone()
	return Mutation{Action: ActionSaveInvoice, Invoice: &r}
}

// DeleteInvoiceMutation builds a deleteInvoice forward
func DeleteInvoiceMutation(invoiceNumber string) Mutation {
	return Mutation{Action: ActionDeleteInvoice, InvoiceNumber: invoiceNumber}
}

// SaveCompanyInfoMutation builds a saveCompanyInfo forward
func SaveCompanyInfoMutation(info entity.CompanyInfo) Mutation {
	return Mutation{Action: ActionSaveCompanyInfo, CompanyInfo: &info}
}

// DispatchStatus is the result of a best-effort forward.
// The sink response is never read, so no status confirms delivery.
type DispatchStatus int

const (
	// StatusSkipped means no sink is configured; treated as success
	StatusSkipped DispatchStatus = iota
	// StatusDispatched means the request left without a transport error
	StatusDispatched
	// StatusTransportFailed means the request could not be sent
	StatusTransportFailed
)

func (s DispatchStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusDispatched:
		return "dispatched"
	case StatusTransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// Outcome is what a sink forward reports
type Outcome struct {
	Status DispatchStatus
	Err    error
}

// OK reports whether the forward counts as a success
func (o Outcome) OK() bool {
	return o.Status != StatusTransportFailed
}

// ReplicationSink forwards a mutation to the external mirror
type ReplicationSink interface {
	Forward(ctx context.Context, m Mutation) Outcome
}

// MutationPublisher queues a mutation for asynchronous forwarding without blocking the caller
type MutationPublisher interface {
	Publish(m Mutation)
}
