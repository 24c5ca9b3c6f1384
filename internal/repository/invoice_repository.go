package repository

import (
	"context"
	"time"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// CreateInvoice inserts a new invoice together with its file metadata
	// rows in a single transaction
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	// GetInvoiceByNumber looks an invoice up by its unique human-facing
	// number; used for duplicate detection
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	// UpdateInvoice applies only the non-nil fields of update
	UpdateInvoice(ctx context.Context, invoiceID string, update domain.InvoiceUpdate) (*domain.Invoice, error)
	// DeleteInvoice removes the invoice and any remaining file metadata rows
	DeleteInvoice(ctx context.Context, invoiceID string) error

	ListInvoicesByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Invoice, error)
	// ListInvoicesByDateRange returns invoices whose date falls within the
	// inclusive [start, end] bounds
	ListInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]domain.Invoice, error)
}
