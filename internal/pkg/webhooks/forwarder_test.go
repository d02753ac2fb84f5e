package webhooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
)

func TestHTTPForwarder(t *testing.T) {
	var gotPath, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewHTTPForwarder(&config.Config{DownstreamURL: srv.URL + "/api", DownstreamTimeout: time.Second})
	err := f.Forward(context.Background(), InvoiceUpdatesPath, Payload{
		Type: EventInvoicePaid,
		Data: InvoicePaid{InvoiceID: "in_1", AmountPaid: 500, Created: 1000},
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/receive-invoice-updates", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"type":"invoice.paid","data":{"invoice_id":"in_1","amount_paid":500,"created":1000}}`, gotBody)
}

func TestHTTPForwarderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPForwarder(&config.Config{DownstreamURL: srv.URL, DownstreamTimeout: time.Second})
	err := f.Forward(context.Background(), TransactionUpdatesPath, Payload{Type: EventChargeSucceeded})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}
