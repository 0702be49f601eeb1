package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// maxTextCapture bounds how much of a text upload is kept for analysis.
const maxTextCapture = 1 << 20

// UploadKind selects the storage prefix and the allowed MIME types.
type UploadKind string

const (
	UploadCV          UploadKind = "cv"
	UploadDeliverable UploadKind = "deliverables"
)

var allowedMIMETypes = map[UploadKind]map[string]string{
	UploadCV: {
		"application/pdf": ".pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	},
	UploadDeliverable: {
		"application/pdf": ".pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
		"application/msword": ".doc",
		"text/plain":         ".txt",
		"text/markdown":      ".md",
	},
}

// ObjectStore is the subset of the S3 client the media service needs.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// StoredFile describes an object written by SaveUpload.
type StoredFile struct {
	Key         string
	URL         string
	FileName    string
	ContentType string
	Size        int64
	// Text holds the decoded content of text uploads, nil otherwise.
	Text *string
}

// MediaService handles file uploads to object storage.
type MediaService struct {
	cfg   *config.Config
	store ObjectStore
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, store ObjectStore) *MediaService {
	return &MediaService{cfg: cfg, store: store}
}

// SaveUpload stores an uploaded file under kind/owner/ with a UUID filename.
func (s *MediaService) SaveUpload(ctx context.Context, kind UploadKind, ownerID uuid.UUID, file io.Reader, header *multipart.FileHeader) (*StoredFile, error) {
	contentType := normalizeContentType(header.Header.Get("Content-Type"))
	ext, ok := allowedMIMETypes[kind][contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(kind), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	var captured *bytes.Buffer
	if strings.HasPrefix(contentType, "text/") {
		captured = &bytes.Buffer{}
		file = io.TeeReader(file, &limitedWriter{buf: captured, remaining: maxTextCapture})
	}

	key := path.Join(string(kind), ownerID.String(), uuid.New().String()+ext)
	if _, err := s.store.PutObject(ctx, s.cfg.StorageBucket, key, file, header.Size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	stored := &StoredFile{
		Key:         key,
		URL:         s.PublicURL(key),
		FileName:    path.Base(header.Filename),
		ContentType: contentType,
		Size:        header.Size,
	}
	if captured != nil && utf8.Valid(captured.Bytes()) {
		text := captured.String()
		stored.Text = &text
	}
	return stored, nil
}

// Remove deletes a stored object, used to undo an upload whose row failed to save.
func (s *MediaService) Remove(ctx context.Context, key string) error {
	return s.store.RemoveObject(ctx, s.cfg.StorageBucket, key, minio.RemoveObjectOptions{})
}

// PublicURL returns the externally reachable URL of an object.
func (s *MediaService) PublicURL(key string) string {
	return s.cfg.StoragePublicURL + "/" + s.cfg.StorageBucket + "/" + key
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func allowedTypes(kind UploadKind) []string {
	types := make([]string, 0, len(allowedMIMETypes[kind]))
	for t := range allowedMIMETypes[kind] {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// limitedWriter keeps the first bytes written to it and silently drops the rest.
type limitedWriter struct {
	buf       *bytes.Buffer
	remaining int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.remaining > 0 {
		n := min(len(p), w.remaining)
		w.buf.Write(p[:n])
		w.remaining -= n
	}
	return len(p), nil
}
