package domain

import "errors"

// Sentinel errors used across the repository, service, and handler layers.
// Callers classify failures with errors.Is.
var (
	// ErrNotFound indicates a referenced invoice or file does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateInvoice indicates an invoice number collision
	ErrDuplicateInvoice = errors.New("invoice number already exists")

	// ErrInvalidDateRange indicates a date-range filter whose start is after its end
	ErrInvalidDateRange = errors.New("start date is after end date")

	// ErrInvoiceHasFiles indicates a delete was refused because files are still attached
	ErrInvoiceHasFiles = errors.New("invoice has attached files")

	// ErrUpload indicates the external storage provider rejected an upload
	ErrUpload = errors.New("file upload failed")

	// ErrRemoteDelete indicates the external storage provider failed to delete a blob
	ErrRemoteDelete = errors.New("remote file delete failed")
)
