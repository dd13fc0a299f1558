package sink

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticURL struct {
	url string
	err error
}

func (s staticURL) SinkURL(context.Context) (string, error) { return s.url, s.err }

func TestHTTPSink_SkipsWithoutURL(t *testing.T) {
	s := NewHTTPSink(staticURL{}, time.Second, zap.NewNop())

	out := s.Forward(context.Background(), port.DeleteInvoiceMutation("INV-0001"))
	assert.Equal(t, port.StatusSkipped, out.Status)
	assert.True(t, out.OK())
	assert.NoError(t, out.Err)
}

func TestHTTPSink_PostsMutation(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		received <- body
		// Status is never inspected
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSink(staticURL{url: srv.URL}, time.Second, zap.NewNop())
	rec := entity.InvoiceRecord{InvoiceNumber: "INV-0003", Customer: entity.Customer{Name: "Acme"}}

	out := s.Forward(context.Background(), port.SaveInvoiceMutation(rec))
	assert.Equal(t, port.StatusDispatched, out.Status)
	assert.True(t, out.OK())

	body := <-received
	assert.Equal(t, "saveInvoice", body["action"])
	invoice, ok := body["invoice"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "INV-0003", invoice["invoiceNumber"])
	assert.NotContains(t, body, "companyInfo")
}

func TestHTTPSink_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewHTTPSink(staticURL{url: url}, time.Second, zap.NewNop())
	out := s.Forward(context.Background(), port.DeleteInvoiceMutation("INV-0001"))

	assert.Equal(t, port.StatusTransportFailed, out.Status)
	assert.False(t, out.OK())
	var dispatchErr *entity.SinkDispatchError
	require.ErrorAs(t, out.Err, &dispatchErr)
	assert.Equal(t, "deleteInvoice", dispatchErr.Action)
}

func TestHTTPSink_URLLookupFailure(t *testing.T) {
	s := NewHTTPSink(staticURL{err: errors.New("locked")}, time.Second, zap.NewNop())
	out := s.Forward(context.Background(), port.DeleteInvoiceMutation("INV-0001"))
	assert.Equal(t, port.StatusTransportFailed, out.Status)
}
