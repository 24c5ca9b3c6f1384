package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/rizkyfm/invoice-manager-service/internal/config"
	"github.com/rizkyfm/invoice-manager-service/internal/domain"
	"github.com/rizkyfm/invoice-manager-service/internal/repository"
	"github.com/rizkyfm/invoice-manager-service/internal/storage"
)

// Attachment is a binary payload with its original filename, to be stored
// alongside a newly created invoice
type Attachment struct {
	Filename string
	Data     []byte
}

// InvoiceService defines the interface for invoice business logic
type InvoiceService interface {
	// CreateInvoice validates invoice-number uniqueness, uploads the
	// attachments, and persists the invoice with its file metadata
	CreateInvoice(ctx context.Context, invoice *domain.Invoice, attachments []Attachment) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoiceID string, update domain.InvoiceUpdate) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
	FilterByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Invoice, error)
	FilterByDateRange(ctx context.Context, start, end time.Time) ([]domain.Invoice, error)
}

// InvoiceServiceImpl implements the InvoiceService interface
type InvoiceServiceImpl struct {
	invoices     repository.InvoiceRepository
	files        repository.FileRepository
	blobs        storage.BlobStorage
	deletePolicy string
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoices repository.InvoiceRepository, files repository.FileRepository, blobs storage.BlobStorage, deletePolicy string) InvoiceService {
	return &InvoiceServiceImpl{
		invoices:     invoices,
		files:        files,
		blobs:        blobs,
		deletePolicy: deletePolicy,
	}
}

// CreateInvoice creates an invoice with its attachments. Attachments are
// uploaded sequentially in input order, then the invoice row and file
// metadata rows are written in a single transaction. If any step fails,
// already-uploaded blobs are compensated with best-effort remote deletes.
func (s *InvoiceServiceImpl) CreateInvoice(ctx context.Context, invoice *domain.Invoice, attachments []Attachment) (*domain.Invoice, error) {
	// Fast-path duplicate check; the unique index on invoice_number catches
	// the race two concurrent creates would otherwise win together.
	_, err := s.invoices.GetInvoiceByNumber(ctx, invoice.InvoiceNumber)
	if err == nil {
		return nil, &ServiceError{Op: "create_invoice", Err: domain.ErrDuplicateInvoice}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, &ServiceError{Op: "create_invoice", Err: err}
	}

	// Upload attachments sequentially; file record order follows attachment order
	var remoteIDs []string
	invoice.Files = make([]domain.File, 0, len(attachments))
	for _, attachment := range attachments {
		result, err := s.blobs.Upload(ctx, attachment.Filename, attachment.Data)
		if err != nil {
			s.compensateUploads(ctx, remoteIDs)
			return nil, &ServiceError{Op: "upload_attachment", Err: err}
		}
		remoteIDs = append(remoteIDs, result.RemoteID)
		invoice.Files = append(invoice.Files, domain.File{
			Filename: attachment.Filename,
			URL:      result.URL,
		})
	}

	created, err := s.invoices.CreateInvoice(ctx, invoice)
	if err != nil {
		s.compensateUploads(ctx, remoteIDs)
		return nil, &ServiceError{Op: "create_invoice", Err: err}
	}

	log.Printf("invoice %s created with %d file(s)", created.InvoiceNumber, len(created.Files))
	return created, nil
}

// compensateUploads removes blobs that were uploaded for an invoice whose
// creation did not complete. Best effort: failures are logged, not returned.
func (s *InvoiceServiceImpl) compensateUploads(ctx context.Context, remoteIDs []string) {
	for _, remoteID := range remoteIDs {
		if err := s.blobs.Delete(ctx, remoteID); err != nil {
			log.Printf("Warning: failed to remove uploaded blob %s during rollback: %v", remoteID, err)
		}
	}
}

// GetInvoiceByID retrieves an invoice with its files
func (s *InvoiceServiceImpl) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, &ServiceError{Op: "get_invoice", Err: err}
	}
	return invoice, nil
}

// ListInvoices retrieves all invoices
func (s *InvoiceServiceImpl) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "list_invoices", Err: err}
	}
	return invoices, nil
}

// UpdateInvoice applies a partial update to an existing invoice, re-checking
// invoice-number uniqueness when the number changes
func (s *InvoiceServiceImpl) UpdateInvoice(ctx context.Context, invoiceID string, update domain.InvoiceUpdate) (*domain.Invoice, error) {
	current, err := s.invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, &ServiceError{Op: "update_invoice", Err: err}
	}

	// Updating to the invoice's own unchanged number is not a collision
	if update.InvoiceNumber != nil && *update.InvoiceNumber != current.InvoiceNumber {
		existing, err := s.invoices.GetInvoiceByNumber(ctx, *update.InvoiceNumber)
		if err == nil && existing.ID != invoiceID {
			return nil, &ServiceError{Op: "update_invoice", Err: domain.ErrDuplicateInvoice}
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, &ServiceError{Op: "update_invoice", Err: err}
		}
	}

	updated, err := s.invoices.UpdateInvoice(ctx, invoiceID, update)
	if err != nil {
		return nil, &ServiceError{Op: "update_invoice", Err: err}
	}

	log.Printf("invoice %s updated", updated.InvoiceNumber)
	return updated, nil
}

// DeleteInvoice removes an invoice. Depending on the configured policy,
// attached files are either cascade-deleted (metadata rows plus best-effort
// remote blobs) or cause the delete to be refused.
func (s *InvoiceServiceImpl) DeleteInvoice(ctx context.Context, invoiceID string) error {
	invoice, err := s.invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return &ServiceError{Op: "delete_invoice", Err: err}
	}

	if len(invoice.Files) > 0 {
		if s.deletePolicy == config.DeletePolicyRestrict {
			return &ServiceError{Op: "delete_invoice", Err: domain.ErrInvoiceHasFiles}
		}
		for _, file := range invoice.Files {
			s.deleteRemoteBlob(ctx, &file)
		}
	}

	// Removes the invoice row and any file metadata rows in one transaction
	if err := s.invoices.DeleteInvoice(ctx, invoiceID); err != nil {
		return &ServiceError{Op: "delete_invoice", Err: err}
	}

	log.Printf("invoice %s deleted", invoice.InvoiceNumber)
	return nil
}

// deleteRemoteBlob removes a file's remote blob. Best effort: an
// underivable remote id or a provider failure is logged as a warning
// so the orphaned blob is visible in the logs.
func (s *InvoiceServiceImpl) deleteRemoteBlob(ctx context.Context, file *domain.File) {
	remoteID, ok := storage.RemoteIDFromURL(file.URL)
	if !ok {
		log.Printf("Warning: cannot derive remote id from url %q for file %s, skipping remote delete", file.URL, file.ID)
		return
	}
	if err := s.blobs.Delete(ctx, remoteID); err != nil {
		log.Printf("Warning: failed to delete remote blob for file %s: %v", file.ID, err)
	}
}

// FilterByPaymentStatus retrieves invoices with the given payment status
func (s *InvoiceServiceImpl) FilterByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListInvoicesByPaymentStatus(ctx, status)
	if err != nil {
		return nil, &ServiceError{Op: "filter_by_payment_status", Err: err}
	}
	return invoices, nil
}

// FilterByDateRange retrieves invoices within the inclusive [start, end]
// bounds, rejecting ranges whose start is after their end
func (s *InvoiceServiceImpl) FilterByDateRange(ctx context.Context, start, end time.Time) ([]domain.Invoice, error) {
	if start.After(end) {
		return nil, &ServiceError{Op: "filter_by_date_range", Err: domain.ErrInvalidDateRange}
	}

	invoices, err := s.invoices.ListInvoicesByDateRange(ctx, start, end)
	if err != nil {
		return nil, &ServiceError{Op: "filter_by_date_range", Err: err}
	}
	return invoices, nil
}
