package models

import "time"

const (
	WEBHOOK_STREAM_INVOICE     = "invoice"
	WEBHOOK_STREAM_TRANSACTION = "transaction"
)

// WebhookEvent records an inbound payments platform event so redelivered
// events are forwarded downstream only once.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Stream          string     `gorm:"type:varchar(20);not null;index:ux_webhook_events_stream_event,unique,priority:1" json:"stream"`
	ProviderEventID string     `gorm:"type:varchar(191);not null;index:ux_webhook_events_stream_event,unique,priority:2" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	ForwardedAt     *time.Time `gorm:"type:timestamp;default:null" json:"forwarded_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsForwarded reports whether the event already reached the downstream consumer.
func (e *WebhookEvent) IsForwarded() bool {
	return e != nil && e.ForwardedAt != nil
}
