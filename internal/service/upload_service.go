package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/spec-kit/request-tracker/internal/config"
	"github.com/spec-kit/request-tracker/internal/storage"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

// UploadFile is one file from a multipart upload.
type UploadFile struct {
	FileName string
	Content  []byte
}

// FileResult reports the outcome for a single file. Failures are per-file;
// one bad file never fails the batch.
type FileResult struct {
	FileName   string
	Accepted   bool
	Reason     string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	URL        string
}

// UploadService validates files against the configured constraints and
// forwards accepted ones to object storage.
type UploadService struct {
	store  storage.ObjectStore
	cfg    config.UploadConfig
	logger *zap.Logger
}

// NewUploadService constructs the service.
func NewUploadService(store storage.ObjectStore, cfg config.UploadConfig, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, cfg: cfg, logger: logger}
}

// Process validates each file and uploads the accepted ones concurrently.
// Each upload succeeds or fails independently; results keep input order.
func (s *UploadService) Process(ctx context.Context, files []UploadFile) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files provided", nil)
	}
	if len(files) > s.cfg.MaxFiles {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d files per upload", s.cfg.MaxFiles), nil)
	}

	results := make([]FileResult, len(files))
	var wg sync.WaitGroup
	for i := range files {
		result := s.validate(files[i])
		results[i] = result
		if !result.Accepted {
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url, err := s.store.Put(ctx, results[i].StorageKey, results[i].MimeType, files[i].Content)
			if err != nil {
				s.logger.Warn("attachment upload failed",
					zap.String("file", files[i].FileName), zap.Error(err))
				results[i].Accepted = false
				results[i].Reason = "storage upload failed"
				results[i].StorageKey = ""
				return
			}
			results[i].URL = url
		}(i)
	}
	wg.Wait()

	return results, nil
}

func (s *UploadService) validate(file UploadFile) FileResult {
	result := FileResult{
		FileName:  file.FileName,
		SizeBytes: int64(len(file.Content)),
	}

	if result.SizeBytes == 0 {
		result.Reason = "file is empty"
		return result
	}
	if result.SizeBytes > s.cfg.MaxFileSizeBytes {
		result.Reason = fmt.Sprintf("file exceeds size limit of %d bytes", s.cfg.MaxFileSizeBytes)
		return result
	}

	// sniff content rather than trusting the client-supplied type
	kind, err := filetype.Match(file.Content)
	if err != nil || kind == filetype.Unknown {
		result.Reason = "unrecognized file type"
		return result
	}
	if !s.cfg.AllowsMimeType(kind.MIME.Value) {
		result.Reason = fmt.Sprintf("file type %s not allowed", kind.MIME.Value)
		return result
	}

	result.MimeType = kind.MIME.Value
	result.Accepted = true
	result.StorageKey = storageKey(file.FileName)
	return result
}

func storageKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return uuid.NewString() + ext
}
