package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-tracker/internal/api/dto"
	"github.com/spec-kit/request-tracker/internal/service"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

// UploadHandler accepts multipart file uploads for attachments.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploadService}
}

// Upload handles POST /api/requests/upload. Files go under the "files"
// multipart field; each is validated and uploaded independently.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	headers := form.File["files"]
	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable file: "+header.Filename, nil)
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return apperrors.NewValidationError("unreadable file: "+header.Filename, nil)
		}
		files = append(files, service.UploadFile{FileName: header.Filename, Content: content})
	}

	results, err := h.uploads.Process(c.Context(), files)
	if err != nil {
		return err
	}

	items := make([]dto.UploadFileResult, 0, len(results))
	for _, result := range results {
		items = append(items, dto.UploadFileResult{
			FileName:   result.FileName,
			Accepted:   result.Accepted,
			Reason:     result.Reason,
			MimeType:   result.MimeType,
			SizeBytes:  result.SizeBytes,
			StorageKey: result.StorageKey,
			URL:        result.URL,
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}
