package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
	"github.com/rizkyfm/invoice-manager-service/internal/service"
)

// FileHandler handles HTTP requests for file-related operations
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

// DeleteFile handles the DELETE /files/{fileId} endpoint
// @Summary Delete a file
// @Description Delete a file's remote blob (best effort) and its metadata record
// @Tags files
// @Produce json
// @Param fileId path string true "File ID"
// @Success 204 "File deleted successfully"
// @Failure 404 {object} model.ErrorResponse "File not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/files/{fileId} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	fileID, err := getPathParam(c, "fileId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), fileID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, fmt.Sprintf("File not found: %s", fileID))
			return
		}
		logError(c, "delete_file", err, map[string]interface{}{"file_id": fileID})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondNoContent(c)
}
