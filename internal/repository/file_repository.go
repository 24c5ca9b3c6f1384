package repository

import (
	"context"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// FileRepository defines the interface for file metadata operations.
// File records are created inside the invoice-create transaction (see
// InvoiceRepository.CreateInvoice); this interface covers the rest of
// their lifecycle.
type FileRepository interface {
	GetFileByID(ctx context.Context, fileID string) (*domain.File, error)
	DeleteFile(ctx context.Context, fileID string) error
}
