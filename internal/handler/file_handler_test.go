package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
	"github.com/rizkyfm/invoice-manager-service/internal/service"
)

// stubFileService implements service.FileService with per-test functions
type stubFileService struct {
	getFn    func(ctx context.Context, fileID string) (*domain.File, error)
	deleteFn func(ctx context.Context, fileID string) error
}

func (s *stubFileService) GetFileByID(ctx context.Context, fileID string) (*domain.File, error) {
	return s.getFn(ctx, fileID)
}

func (s *stubFileService) DeleteFile(ctx context.Context, fileID string) error {
	return s.deleteFn(ctx, fileID)
}

func newFileRouter(svc service.FileService) *gin.Engine {
	handler := NewFileHandler(svc)
	router := gin.New()
	router.DELETE("/v1/files/:fileId", handler.DeleteFile)
	return router
}

func TestDeleteFileHandler(t *testing.T) {
	var deletedID string
	svc := &stubFileService{
		deleteFn: func(ctx context.Context, fileID string) error {
			deletedID = fileID
			return nil
		},
	}
	router := newFileRouter(svc)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/files/file-1", nil))

	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "file-1", deletedID)
}

func TestDeleteFileHandlerNotFound(t *testing.T) {
	svc := &stubFileService{
		deleteFn: func(ctx context.Context, fileID string) error {
			return &service.ServiceError{Op: "delete_file", Err: domain.ErrNotFound}
		},
	}
	router := newFileRouter(svc)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/files/missing", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteFileHandlerInternalError(t *testing.T) {
	svc := &stubFileService{
		deleteFn: func(ctx context.Context, fileID string) error {
			return &service.ServiceError{Op: "delete_file", Err: errors.New("connection reset")}
		},
	}
	router := newFileRouter(svc)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/files/file-1", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
