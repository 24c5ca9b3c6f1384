package domain

import "time"

// File is the metadata record for a blob stored at the external hosting provider.
// A File always belongs to exactly one Invoice.
type File struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	InvoiceID string    `json:"invoiceId"`
	CreatedAt time.Time `json:"createdAt"`
}
