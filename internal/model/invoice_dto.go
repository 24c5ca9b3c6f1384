package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// invoiceNumberPattern is the required format for human-facing invoice numbers
var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{4}$`)

// dateFormats lists the accepted input formats for invoice dates
var dateFormats = []string{"2006-01-02", time.RFC3339}

// CreateInvoiceRequest carries the multipart form fields of an invoice
// create request. Date and amount arrive as strings and are normalized
// during validation.
type CreateInvoiceRequest struct {
	InvoiceNumber string `json:"invoiceNumber" form:"invoiceNumber"`
	Date          string `json:"date" form:"date"`
	TotalAmount   string `json:"totalAmount" form:"totalAmount"`
	PaymentStatus string `json:"paymentStatus" form:"paymentStatus"`
}

// Validate checks the request fields and, when they are all valid, returns
// the normalized domain invoice
func (r *CreateInvoiceRequest) Validate() (*domain.Invoice, []ErrorDetail) {
	var details []ErrorDetail

	if !invoiceNumberPattern.MatchString(r.InvoiceNumber) {
		details = append(details, ErrorDetail{
			Field:   "invoiceNumber",
			Message: "invoiceNumber must follow the format INV-XXXX",
		})
	}

	date, err := parseInvoiceDate(r.Date)
	if err != nil {
		details = append(details, ErrorDetail{Field: "date", Message: err.Error()})
	}

	amount, err := parseTotalAmount(r.TotalAmount)
	if err != nil {
		details = append(details, ErrorDetail{Field: "totalAmount", Message: err.Error()})
	}

	status, err := domain.ParsePaymentStatus(r.PaymentStatus)
	if err != nil {
		details = append(details, ErrorDetail{
			Field:   "paymentStatus",
			Message: "paymentStatus must be one of: PAID, UNPAID, OVERDUE",
		})
	}

	if len(details) > 0 {
		return nil, details
	}

	return &domain.Invoice{
		InvoiceNumber: r.InvoiceNumber,
		Date:          date,
		TotalAmount:   amount,
		PaymentStatus: status,
	}, nil
}

// UpdateInvoiceRequest carries a partial invoice update. Absent fields are
// left unchanged.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string  `json:"invoiceNumber"`
	Date          *string  `json:"date"`
	TotalAmount   *float64 `json:"totalAmount"`
	PaymentStatus *string  `json:"paymentStatus"`
}

// Validate checks the provided fields and returns the normalized partial update
func (r *UpdateInvoiceRequest) Validate() (domain.InvoiceUpdate, []ErrorDetail) {
	var update domain.InvoiceUpdate
	var details []ErrorDetail

	if r.InvoiceNumber != nil {
		if !invoiceNumberPattern.MatchString(*r.InvoiceNumber) {
			details = append(details, ErrorDetail{
				Field:   "invoiceNumber",
				Message: "invoiceNumber must follow the format INV-XXXX",
			})
		} else {
			update.InvoiceNumber = r.InvoiceNumber
		}
	}

	if r.Date != nil {
		date, err := parseInvoiceDate(*r.Date)
		if err != nil {
			details = append(details, ErrorDetail{Field: "date", Message: err.Error()})
		} else {
			update.Date = &date
		}
	}

	if r.TotalAmount != nil {
		if *r.TotalAmount <= 0 {
			details = append(details, ErrorDetail{
				Field:   "totalAmount",
				Message: "totalAmount must be a positive number",
			})
		} else {
			update.TotalAmount = r.TotalAmount
		}
	}

	if r.PaymentStatus != nil {
		status, err := domain.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			details = append(details, ErrorDetail{
				Field:   "paymentStatus",
				Message: "paymentStatus must be one of: PAID, UNPAID, OVERDUE",
			})
		} else {
			update.PaymentStatus = &status
		}
	}

	return update, details
}

// parseInvoiceDate normalizes a date string in YYYY-MM-DD or RFC3339 format
func parseInvoiceDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
}

// parseTotalAmount normalizes a decimal amount string and requires it to be positive
func parseTotalAmount(amountStr string) (float64, error) {
	if amountStr == "" {
		return 0, fmt.Errorf("totalAmount is required")
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, fmt.Errorf("totalAmount must be a number")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("totalAmount must be a positive number")
	}
	return amount, nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string         `json:"id"`
	InvoiceNumber string         `json:"invoiceNumber"`
	Date          string         `json:"date"`
	TotalAmount   float64        `json:"totalAmount"`
	PaymentStatus string         `json:"paymentStatus"`
	Files         []FileResponse `json:"files"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

// NewInvoiceResponse converts a domain invoice to its response representation
func NewInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	files := make([]FileResponse, len(invoice.Files))
	for i, file := range invoice.Files {
		files[i] = NewFileResponse(&file)
	}

	return InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Date:          invoice.Date.Format("2006-01-02"),
		TotalAmount:   invoice.TotalAmount,
		PaymentStatus: string(invoice.PaymentStatus),
		Files:         files,
		CreatedAt:     invoice.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     invoice.UpdatedAt.Format(time.RFC3339),
	}
}

// NewInvoiceListResponse converts a slice of domain invoices for responses
func NewInvoiceListResponse(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = NewInvoiceResponse(&invoices[i])
	}
	return responses
}
