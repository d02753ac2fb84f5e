// Package webhooks turns payments platform events into the reduced payloads
// the downstream consumer expects and delivers them through the job queue.
package webhooks

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
)

const (
	EventInvoicePaid     = "invoice.paid"
	EventInvoiceDeleted  = "invoice.deleted"
	EventChargeSucceeded = "charge.succeeded"

	InvoiceUpdatesPath     = "/receive-invoice-updates"
	TransactionUpdatesPath = "/receive-transaction-updates"
)

var (
	ErrUnknownStream = errors.New("unknown webhook stream")
	ErrMalformed     = errors.New("malformed webhook event")
)

// Payload is the body posted to the downstream consumer.
type Payload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type InvoicePaid struct {
	InvoiceID  string `json:"invoice_id"`
	AmountPaid int64  `json:"amount_paid"`
	Created    int64  `json:"created"`
}

type InvoiceDeleted struct {
	InvoiceID string `json:"invoice_id"`
	Created   int64  `json:"created"`
}

type ChargeSucceeded struct {
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Created       int64  `json:"created"`
}

// Forward is a reduced event ready to be posted to Path.
type Forward struct {
	Path    string
	Payload Payload
}

// eventObject holds the fields of data.object used by the reductions.
type eventObject struct {
	ID             string `json:"id"`
	AmountPaid     int64  `json:"amount_paid"`
	AmountCaptured int64  `json:"amount_captured"`
	Created        int64  `json:"created"`
}

// ParseEvent decodes a raw webhook body.
func ParseEvent(body []byte) (*stripe.Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return &event, nil
}

// Recognized reports whether the stream forwards events of eventType.
func Recognized(stream, eventType string) bool {
	switch stream {
	case models.WEBHOOK_STREAM_INVOICE:
		return eventType == EventInvoicePaid || eventType == EventInvoiceDeleted
	case models.WEBHOOK_STREAM_TRANSACTION:
		return eventType == EventChargeSucceeded
	}
	return false
}

// Reduce builds the downstream payload for event. It returns nil, nil when
// the stream does not forward the event type.
func Reduce(stream string, event *stripe.Event) (*Forward, error) {
	if stream != models.WEBHOOK_STREAM_INVOICE && stream != models.WEBHOOK_STREAM_TRANSACTION {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStream, stream)
	}

	eventType := string(event.Type)
	if !Recognized(stream, eventType) {
		return nil, nil
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: %s without data.object", ErrMalformed, eventType)
	}
	var obj eventObject
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: %s object without id", ErrMalformed, eventType)
	}

	switch eventType {
	case EventInvoicePaid:
		return &Forward{
			Path: InvoiceUpdatesPath,
			Payload: Payload{Type: eventType, Data: InvoicePaid{
				InvoiceID:  obj.ID,
				AmountPaid: obj.AmountPaid,
				Created:    obj.Created,
			}},
		}, nil
	case EventInvoiceDeleted:
		return &Forward{
			Path: InvoiceUpdatesPath,
			Payload: Payload{Type: eventType, Data: InvoiceDeleted{
				InvoiceID: obj.ID,
				Created:   obj.Created,
			}},
		}, nil
	default:
		return &Forward{
			Path: TransactionUpdatesPath,
			Payload: Payload{Type: eventType, Data: ChargeSucceeded{
				TransactionID: obj.ID,
				Amount:        obj.AmountCaptured,
				Created:       obj.Created,
			}},
		}, nil
	}
}
