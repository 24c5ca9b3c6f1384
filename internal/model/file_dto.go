package model

import (
	"time"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// FileResponse represents a file metadata record in API responses
type FileResponse struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	InvoiceID string `json:"invoiceId"`
	CreatedAt string `json:"createdAt"`
}

// NewFileResponse converts a domain file to its response representation
func NewFileResponse(file *domain.File) FileResponse {
	return FileResponse{
		ID:        file.ID,
		Filename:  file.Filename,
		URL:       file.URL,
		InvoiceID: file.InvoiceID,
		CreatedAt: file.CreatedAt.Format(time.RFC3339),
	}
}
