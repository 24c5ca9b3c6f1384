package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// uniqueViolationCode is the SQLSTATE for unique constraint violations
const uniqueViolationCode = "23505"

// PostgresInvoiceRepository implements InvoiceRepository using PostgreSQL
type PostgresInvoiceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository
func NewPostgresInvoiceRepository(db *pgxpool.Pool) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{
		db: db,
	}
}

// isUniqueViolation reports whether err is a unique-index violation. The
// invoice_number unique index is the authoritative duplicate signal; two
// concurrent creates can both pass the service pre-check, but only one
// insert commits.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CreateInvoice saves a new invoice and its file metadata to the database
func (r *PostgresInvoiceRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	// Insert invoice
	var invoiceID string
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, date, total_amount, payment_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, invoice.InvoiceNumber, invoice.Date, invoice.TotalAmount, invoice.PaymentStatus).Scan(
		&invoiceID, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("invoice number %s: %w", invoice.InvoiceNumber, domain.ErrDuplicateInvoice)
		}
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	invoice.ID = invoiceID

	// Insert file metadata rows in attachment order
	for i := range invoice.Files {
		file := &invoice.Files[i]
		file.InvoiceID = invoiceID
		err = tx.QueryRow(ctx, `
			INSERT INTO files (filename, url, invoice_id)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, file.Filename, file.URL, invoiceID).Scan(&file.ID, &file.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert file metadata: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return invoice, nil
}

// GetInvoiceByID retrieves an invoice by its ID
func (r *PostgresInvoiceRepository) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.QueryRow(ctx, `
		SELECT id, invoice_number, date, total_amount, payment_status, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`, invoiceID).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.Date, &invoice.TotalAmount,
		&invoice.PaymentStatus, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	files, err := r.queryFiles(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Files = files

	return &invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its unique invoice number
func (r *PostgresInvoiceRepository) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.QueryRow(ctx, `
		SELECT id, invoice_number, date, total_amount, payment_status, created_at, updated_at
		FROM invoices
		WHERE invoice_number = $1
	`, invoiceNumber).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.Date, &invoice.TotalAmount,
		&invoice.PaymentStatus, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("invoice number %s: %w", invoiceNumber, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invoice by number: %w", err)
	}

	files, err := r.queryFiles(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Files = files

	return &invoice, nil
}

// ListInvoices retrieves all invoices, newest date first
func (r *PostgresInvoiceRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, "", nil)
}

// ListInvoicesByPaymentStatus retrieves invoices with the given payment status
func (r *PostgresInvoiceRepository) ListInvoicesByPaymentStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, "WHERE payment_status = $1", []interface{}{status})
}

// ListInvoicesByDateRange retrieves invoices whose date falls within the
// inclusive [start, end] bounds
func (r *PostgresInvoiceRepository) ListInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, "WHERE date >= $1 AND date <= $2", []interface{}{start, end})
}

// UpdateInvoice applies the non-nil fields of update to an existing invoice
func (r *PostgresInvoiceRepository) UpdateInvoice(ctx context.Context, invoiceID string, update domain.InvoiceUpdate) (*domain.Invoice, error) {
	// Build SET clauses from the provided fields
	setClauses := []string{}
	args := []interface{}{}
	argCount := 1

	if update.InvoiceNumber != nil {
		setClauses = append(setClauses, fmt.Sprintf("invoice_number = $%d", argCount))
		args = append(args, *update.InvoiceNumber)
		argCount++
	}
	if update.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", argCount))
		args = append(args, *update.Date)
		argCount++
	}
	if update.TotalAmount != nil {
		setClauses = append(setClauses, fmt.Sprintf("total_amount = $%d", argCount))
		args = append(args, *update.TotalAmount)
		argCount++
	}
	if update.PaymentStatus != nil {
		setClauses = append(setClauses, fmt.Sprintf("payment_status = $%d", argCount))
		args = append(args, *update.PaymentStatus)
		argCount++
	}

	if len(setClauses) == 0 {
		return r.GetInvoiceByID(ctx, invoiceID)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, invoiceID)

	query := fmt.Sprintf(`
		UPDATE invoices
		SET %s
		WHERE id = $%d
		RETURNING id, invoice_number, date, total_amount, payment_status, created_at, updated_at
	`, strings.Join(setClauses, ", "), argCount)

	var invoice domain.Invoice
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.Date, &invoice.TotalAmount,
		&invoice.PaymentStatus, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("invoice number %s: %w", *update.InvoiceNumber, domain.ErrDuplicateInvoice)
		}
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	files, err := r.queryFiles(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Files = files

	return &invoice, nil
}

// DeleteInvoice removes an invoice and any remaining file metadata rows
func (r *PostgresInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	_, err = tx.Exec(ctx, `DELETE FROM files WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice files: %w", err)
	}

	commandTag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrNotFound)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// queryInvoices runs a filtered invoice query and populates files for every
// returned invoice with a single batched query
func (r *PostgresInvoiceRepository) queryInvoices(ctx context.Context, whereClause string, args []interface{}) ([]domain.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT id, invoice_number, date, total_amount, payment_status, created_at, updated_at
		FROM invoices
		%s
		ORDER BY date DESC
	`, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	invoiceMap := make(map[string]int)
	var invoiceIDs []string

	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID, &invoice.InvoiceNumber, &invoice.Date, &invoice.TotalAmount,
			&invoice.PaymentStatus, &invoice.CreatedAt, &invoice.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoice.Files = []domain.File{}
		invoiceMap[invoice.ID] = len(invoices)
		invoiceIDs = append(invoiceIDs, invoice.ID)
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	if len(invoiceIDs) == 0 {
		return invoices, nil
	}

	// Get files for all invoices in a single query
	placeholders := make([]string, len(invoiceIDs))
	fileArgs := make([]interface{}, len(invoiceIDs))
	for i, id := range invoiceIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		fileArgs[i] = id
	}

	fileQuery := fmt.Sprintf(`
		SELECT id, filename, url, invoice_id, created_at
		FROM files
		WHERE invoice_id IN (%s)
		ORDER BY created_at, id
	`, strings.Join(placeholders, ", "))

	fileRows, err := r.db.Query(ctx, fileQuery, fileArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice files: %w", err)
	}
	defer fileRows.Close()

	for fileRows.Next() {
		var file domain.File
		if err := fileRows.Scan(&file.ID, &file.Filename, &file.URL, &file.InvoiceID, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice file: %w", err)
		}
		if idx, ok := invoiceMap[file.InvoiceID]; ok {
			invoices[idx].Files = append(invoices[idx].Files, file)
		}
	}

	if err := fileRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice files: %w", err)
	}

	return invoices, nil
}

// queryFiles loads the file metadata rows belonging to a single invoice
func (r *PostgresInvoiceRepository) queryFiles(ctx context.Context, invoiceID string) ([]domain.File, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, filename, url, invoice_id, created_at
		FROM files
		WHERE invoice_id = $1
		ORDER BY created_at, id
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice files: %w", err)
	}
	defer rows.Close()

	files := []domain.File{}
	for rows.Next() {
		var file domain.File
		if err := rows.Scan(&file.ID, &file.Filename, &file.URL, &file.InvoiceID, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice files: %w", err)
	}

	return files, nil
}
