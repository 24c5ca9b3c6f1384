package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
	"github.com/rizkyfm/invoice-manager-service/internal/model"
	"github.com/rizkyfm/invoice-manager-service/internal/service"
)

// InvoiceHandler handles HTTP requests for invoice-related operations
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// CreateInvoice handles the POST /invoices endpoint
// @Summary Create a new invoice
// @Description Create an invoice with optional file attachments
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param invoiceNumber formData string true "Invoice number (INV-XXXX)"
// @Param date formData string true "Invoice date (YYYY-MM-DD)"
// @Param totalAmount formData string true "Total amount (positive decimal)"
// @Param paymentStatus formData string true "Payment status (PAID, UNPAID, OVERDUE)"
// @Param files formData file false "Attached files"
// @Success 201 {object} model.InvoiceResponse "Invoice created successfully"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 409 {object} model.ErrorResponse "Invoice number already exists"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	input := model.CreateInvoiceRequest{
		InvoiceNumber: c.PostForm("invoiceNumber"),
		Date:          c.PostForm("date"),
		TotalAmount:   c.PostForm("totalAmount"),
		PaymentStatus: c.PostForm("paymentStatus"),
	}

	invoice, validationErrors := input.Validate()
	if len(validationErrors) > 0 {
		respondBadRequest(c, ErrInvalidInput, validationErrors...)
		return
	}

	attachments, err := readAttachments(c)
	if err != nil {
		logError(c, "read_attachments", err, nil)
		respondBadRequest(c, ErrFileUpload)
		return
	}

	created, err := h.invoiceService.CreateInvoice(c.Request.Context(), invoice, attachments)
	if err != nil {
		logError(c, "create_invoice", err, map[string]interface{}{
			"invoice_number": input.InvoiceNumber,
			"attachments":    len(attachments),
		})
		switch {
		case errors.Is(err, domain.ErrDuplicateInvoice):
			respondConflict(c, fmt.Sprintf("Invoice number %s already exists", input.InvoiceNumber))
		case errors.Is(err, domain.ErrUpload):
			respondInternalServerError(c, ErrFileUpload)
		default:
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}

	respondCreated(c, model.NewInvoiceResponse(created))
}

// readAttachments reads the uploaded files of a multipart create request
func readAttachments(c *gin.Context) ([]service.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	var attachments []service.Attachment
	for _, fileHeader := range form.File["files"] {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", fileHeader.Filename, err)
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", fileHeader.Filename, err)
		}

		attachments = append(attachments, service.Attachment{
			Filename: fileHeader.Filename,
			Data:     data,
		})
	}

	return attachments, nil
}

// GetInvoices handles the GET /invoices endpoint
// @Summary List all invoices
// @Description Get all invoices with their attached files, newest date first
// @Tags invoices
// @Produce json
// @Success 200 {array} model.InvoiceResponse "List of invoices"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices [get]
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		logError(c, "list_invoices", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.NewInvoiceListResponse(invoices))
}

// GetInvoiceByID handles the GET /invoices/{invoiceId} endpoint
// @Summary Get an invoice by ID
// @Description Retrieve a specific invoice with its attached files
// @Tags invoices
// @Produce json
// @Param invoiceId path string true "Invoice ID"
// @Success 200 {object} model.InvoiceResponse "Invoice details"
// @Failure 404 {object} model.ErrorResponse "Invoice not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/{invoiceId} [get]
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoiceID, err := getPathParam(c, "invoiceId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("Invoice not found: %s", invoiceID))
			return
		}
		logError(c, "get_invoice", err, map[string]interface{}{"invoice_id": invoiceID})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.NewInvoiceResponse(invoice))
}

// UpdateInvoice handles the PATCH /invoices/{invoiceId} endpoint
// @Summary Update an invoice
// @Description Apply a partial update to an existing invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceId path string true "Invoice ID"
// @Param invoice body model.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} model.InvoiceResponse "Invoice updated successfully"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Invoice not found"
// @Failure 409 {object} model.ErrorResponse "Invoice number already exists"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/{invoiceId} [patch]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "invoiceId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var input model.UpdateInvoiceRequest
	if err := bindJSON(c, &input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	update, validationErrors := input.Validate()
	if len(validationErrors) > 0 {
		respondBadRequest(c, ErrInvalidInput, validationErrors...)
		return
	}

	updated, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondNotFound(c, fmt.Sprintf("Invoice not found: %s", invoiceID))
		case errors.Is(err, domain.ErrDuplicateInvoice):
			respondConflict(c, "Invoice number already exists")
		default:
			logError(c, "update_invoice", err, map[string]interface{}{"invoice_id": invoiceID})
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}

	respondOK(c, model.NewInvoiceResponse(updated))
}

// DeleteInvoice handles the DELETE /invoices/{invoiceId} endpoint
// @Summary Delete an invoice
// @Description Delete an invoice; attached files are cascade-deleted or block the delete depending on the configured policy
// @Tags invoices
// @Produce json
// @Param invoiceId path string true "Invoice ID"
// @Success 204 "Invoice deleted successfully"
// @Failure 404 {object} model.ErrorResponse "Invoice not found"
// @Failure 409 {object} model.ErrorResponse "Invoice still has attached files"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/{invoiceId} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "invoiceId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), invoiceID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondNotFound(c, fmt.Sprintf("Invoice not found: %s", invoiceID))
		case errors.Is(err, domain.ErrInvoiceHasFiles):
			respondConflict(c, "Invoice still has attached files; delete them first")
		default:
			logError(c, "delete_invoice", err, map[string]interface{}{"invoice_id": invoiceID})
			respondInternalServerError(c, ErrInternalServer)
		}
		return
	}

	respondNoContent(c)
}

// FilterByPaymentStatus handles the GET /invoices/filter/payment endpoint
// @Summary Filter invoices by payment status
// @Description Get all invoices with the given payment status
// @Tags invoices
// @Produce json
// @Param paymentStatus query string true "Payment status (PAID, UNPAID, OVERDUE)"
// @Success 200 {array} model.InvoiceResponse "Matching invoices"
// @Failure 400 {object} model.ErrorResponse "Invalid or missing payment status"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/filter/payment [get]
func (h *InvoiceHandler) FilterByPaymentStatus(c *gin.Context) {
	statusParam := c.Query("paymentStatus")
	if statusParam == "" {
		respondBadRequest(c, ErrInvalidQueryParams,
			model.ErrorDetail{Field: "paymentStatus", Message: "Payment status is required"})
		return
	}

	status, err := domain.ParsePaymentStatus(statusParam)
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams,
			model.ErrorDetail{Field: "paymentStatus", Message: "Payment status must be one of: PAID, UNPAID, OVERDUE"})
		return
	}

	invoices, err := h.invoiceService.FilterByPaymentStatus(c.Request.Context(), status)
	if err != nil {
		logError(c, "filter_by_payment_status", err, map[string]interface{}{"payment_status": statusParam})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.NewInvoiceListResponse(invoices))
}

// FilterByDateRange handles the GET /invoices/filter/date endpoint
// @Summary Filter invoices by date range
// @Description Get all invoices whose date falls within the inclusive [startDate, endDate] bounds
// @Tags invoices
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {array} model.InvoiceResponse "Matching invoices"
// @Failure 400 {object} model.ErrorResponse "Invalid or inverted date range"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/filter/date [get]
func (h *InvoiceHandler) FilterByDateRange(c *gin.Context) {
	startParam := c.Query("startDate")
	endParam := c.Query("endDate")
	if startParam == "" || endParam == "" {
		respondBadRequest(c, ErrInvalidQueryParams,
			model.ErrorDetail{Field: "startDate", Message: "Start date and end date are required"})
		return
	}

	start, err := parseDate(startParam)
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams,
			model.ErrorDetail{Field: "startDate", Message: err.Error()})
		return
	}

	end, err := parseDate(endParam)
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams,
			model.ErrorDetail{Field: "endDate", Message: err.Error()})
		return
	}

	invoices, err := h.invoiceService.FilterByDateRange(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDateRange) {
			respondBadRequest(c, ErrInvalidQueryParams,
				model.ErrorDetail{Field: "startDate", Message: "Start date must not be after end date"})
			return
		}
		logError(c, "filter_by_date_range", err, map[string]interface{}{
			"start_date": startParam,
			"end_date":   endParam,
		})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, model.NewInvoiceListResponse(invoices))
}
