package domain

import (
	"fmt"
	"time"
)

// PaymentStatus is the closed set of invoice settlement states
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// ParsePaymentStatus converts a string to a PaymentStatus, rejecting unknown values
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusOverdue:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status: %q", s)
}

// IsValid reports whether the status is one of the known settlement states
func (s PaymentStatus) IsValid() bool {
	_, err := ParsePaymentStatus(string(s))
	return err == nil
}

// Invoice represents the core domain entity for an invoice
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          time.Time     `json:"date"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Files         []File        `json:"files"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// InvoiceUpdate carries a partial update for an invoice; nil fields are left unchanged
type InvoiceUpdate struct {
	InvoiceNumber *string
	Date          *time.Time
	TotalAmount   *float64
	PaymentStatus *PaymentStatus
}

// IsEmpty reports whether the update would change nothing
func (u InvoiceUpdate) IsEmpty() bool {
	return u.InvoiceNumber == nil && u.Date == nil && u.TotalAmount == nil && u.PaymentStatus == nil
}
