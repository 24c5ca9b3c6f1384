package service

import (
	"context"
	"fmt"
	"log"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
	"github.com/rizkyfm/invoice-manager-service/internal/repository"
	"github.com/rizkyfm/invoice-manager-service/internal/storage"
)

// FileService defines the interface for file business logic
type FileService interface {
	GetFileByID(ctx context.Context, fileID string) (*domain.File, error)
	// DeleteFile removes the remote blob (best effort) and the metadata row
	DeleteFile(ctx context.Context, fileID string) error
}

// FileServiceImpl implements the FileService interface
type FileServiceImpl struct {
	files repository.FileRepository
	blobs storage.BlobStorage
}

// NewFileService creates a new FileService
func NewFileService(files repository.FileRepository, blobs storage.BlobStorage) FileService {
	return &FileServiceImpl{
		files: files,
		blobs: blobs,
	}
}

// GetFileByID retrieves a file metadata record
func (s *FileServiceImpl) GetFileByID(ctx context.Context, fileID string) (*domain.File, error) {
	file, err := s.files.GetFileByID(ctx, fileID)
	if err != nil {
		return nil, &ServiceError{Op: "get_file", Err: err}
	}
	return file, nil
}

// DeleteFile deletes a file's remote blob and its metadata row. The remote
// delete is best effort: an underivable remote id or a provider failure is
// logged as a warning and the metadata row is removed regardless.
func (s *FileServiceImpl) DeleteFile(ctx context.Context, fileID string) error {
	file, err := s.files.GetFileByID(ctx, fileID)
	if err != nil {
		return &ServiceError{Op: "delete_file", Err: err}
	}

	if file.URL == "" {
		return &ServiceError{Op: "delete_file", Err: fmt.Errorf("file %s has no url: %w", fileID, domain.ErrNotFound)}
	}

	remoteID, ok := storage.RemoteIDFromURL(file.URL)
	if !ok {
		// Orphaned blob: the provider copy cannot be addressed anymore
		log.Printf("Warning: cannot derive remote id from url %q for file %s, skipping remote delete", file.URL, fileID)
	} else if err := s.blobs.Delete(ctx, remoteID); err != nil {
		log.Printf("Warning: failed to delete remote blob for file %s: %v", fileID, err)
	}

	if err := s.files.DeleteFile(ctx, fileID); err != nil {
		return &ServiceError{Op: "delete_file", Err: err}
	}

	log.Printf("file %s deleted", fileID)
	return nil
}
