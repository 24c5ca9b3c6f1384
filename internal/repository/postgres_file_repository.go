package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// PostgresFileRepository implements FileRepository using PostgreSQL
type PostgresFileRepository struct {
	db *pgxpool.Pool
}

// NewPostgresFileRepository creates a new PostgreSQL file repository
func NewPostgresFileRepository(db *pgxpool.Pool) *PostgresFileRepository {
	return &PostgresFileRepository{
		db: db,
	}
}

// GetFileByID retrieves a file metadata record by its ID
func (r *PostgresFileRepository) GetFileByID(ctx context.Context, fileID string) (*domain.File, error) {
	var file domain.File
	err := r.db.QueryRow(ctx, `
		SELECT id, filename, url, invoice_id, created_at
		FROM files
		WHERE id = $1
	`, fileID).Scan(&file.ID, &file.Filename, &file.URL, &file.InvoiceID, &file.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

// DeleteFile removes a file metadata record
func (r *PostgresFileRepository) DeleteFile(ctx context.Context, fileID string) error {
	commandTag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}

	return nil
}
