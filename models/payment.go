package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentProvider string

const (
	ProviderStripe         PaymentProvider = "STRIPE"
	ProviderCashOnDelivery PaymentProvider = "CASH_ON_DELIVERY"
	ProviderCardOnDelivery PaymentProvider = "CARD_ON_DELIVERY"
)

func (p PaymentProvider) Valid() bool {
	switch p {
	case ProviderStripe, ProviderCashOnDelivery, ProviderCardOnDelivery:
		return true
	}
	return false
}

// Online reports whether the provider is paid through a checkout session.
func (p PaymentProvider) Online() bool {
	return p == ProviderStripe
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID                string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID           string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"order_id"`
	Provider          PaymentProvider `gorm:"type:varchar(30);not null" json:"provider"`
	Status            PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ProviderPaymentID *string         `gorm:"type:varchar(255);index" json:"provider_payment_id,omitempty"`
	ProviderRefundID  *string         `gorm:"type:varchar(255)" json:"provider_refund_id,omitempty"`
	SessionID         *string         `gorm:"type:varchar(255)" json:"session_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type IncidentKind string

const (
	IncidentRefundPending   IncidentKind = "REFUND_PENDING"    // cancelled, refund request failed
	IncidentRefundFailed    IncidentKind = "REFUND_FAILED"     // provider reported a failed refund
	IncidentEventFailed     IncidentKind = "EVENT_FAILED"      // webhook acknowledged but not applied
	IncidentPaidAfterCancel IncidentKind = "PAID_AFTER_CANCEL" // capture arrived for a cancelled order
)

// PaymentIncident records a payment situation that needs a human to look at it.
type PaymentIncident struct {
	ID                uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind              IncidentKind `gorm:"type:varchar(30);not null;index" json:"kind"`
	OrderID           *string      `gorm:"type:varchar(36);index" json:"order_id,omitempty"`
	ProviderPaymentID *string      `gorm:"type:varchar(255)" json:"provider_payment_id,omitempty"`
	ProviderRefundID  *string      `gorm:"type:varchar(255)" json:"provider_refund_id,omitempty"`
	EventType         string       `json:"event_type,omitempty"`
	Detail            string       `json:"detail"`
	Resolved          bool         `gorm:"not null;index" json:"resolved"`
	CreatedAt         time.Time    `json:"created_at"`
}
