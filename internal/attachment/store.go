package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/observability"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// MaxFileSize is the largest accepted upload.
const MaxFileSize int64 = 10 << 20

var allowedExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

var allowedMediaTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
}

// Upload is a file received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Ext returns the lowercased file extension.
func (u Upload) Ext() string {
	return strings.ToLower(filepath.Ext(u.FileName))
}

// MediaType returns the declared media type without parameters.
func (u Upload) MediaType() string {
	mt, _, _ := strings.Cut(u.ContentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// IsPDF reports whether the upload declares itself a PDF.
func (u Upload) IsPDF() bool {
	return u.MediaType() == "application/pdf"
}

// Check enforces the type allow-list and size limit.
func Check(u Upload) error {
	if !allowedExtensions[u.Ext()] || !allowedMediaTypes[u.MediaType()] {
		return apperrors.NewUnsupportedFileType(u.FileName)
	}
	if u.Size > MaxFileSize {
		return apperrors.NewFileTooLarge(MaxFileSize)
	}
	return nil
}

// Backend persists an accepted upload. owner is the submitter's name.
type Backend interface {
	Name() string
	Put(ctx context.Context, u Upload, owner string) (*domain.AttachmentRef, error)
}

// remover is implemented by backends that can delete what they stored.
type remover interface {
	Remove(ctx context.Context, ref *domain.AttachmentRef) error
}

// Store tries each backend in order until one succeeds.
type Store struct {
	backends []Backend
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewStore builds a Store over explicit backends.
func NewStore(logger *zap.Logger, metrics *observability.Metrics, backends ...Backend) *Store {
	return &Store{backends: backends, logger: logger, metrics: metrics}
}

// NewStoreFromConfig selects backends once from configuration: Cloudinary when
// its credentials are present, then the local directory when it is writable.
func NewStoreFromConfig(cfg config.StorageConfig, logger *zap.Logger, metrics *observability.Metrics) *Store {
	var backends []Backend
	if cfg.RemoteEnabled() {
		remote, err := NewCloudinaryBackend(cfg)
		if err != nil {
			logger.Warn("cloudinary unavailable; using local storage", zap.Error(err))
		} else {
			backends = append(backends, remote)
		}
	}
	local, err := NewLocalBackend(cfg.LocalDir)
	if err != nil {
		logger.Warn("local upload directory unavailable", zap.String("dir", cfg.LocalDir), zap.Error(err))
	} else {
		backends = append(backends, local)
	}
	if len(backends) == 0 {
		logger.Warn("no attachment storage available; uploads will be discarded")
	}
	return NewStore(logger, metrics, backends...)
}

// Backends lists the configured backend names in try order.
func (s *Store) Backends() []string {
	names := make([]string, len(s.backends))
	for i, b := range s.backends {
		names[i] = b.Name()
	}
	return names
}

// Save validates u and stores it. It returns a nil reference without error
// when every backend fails or none is configured.
func (s *Store) Save(ctx context.Context, u Upload, owner string) (*domain.AttachmentRef, error) {
	if err := Check(u); err != nil {
		return nil, err
	}
	for _, b := range s.backends {
		ref, err := b.Put(ctx, u, owner)
		if err != nil {
			s.logger.Warn("attachment backend failed; trying next",
				zap.String("backend", b.Name()),
				zap.String("file", u.FileName),
				zap.Error(err))
			continue
		}
		s.metrics.RecordAttachment(b.Name())
		return ref, nil
	}
	s.logger.Warn("attachment discarded; no backend stored it", zap.String("file", u.FileName))
	s.metrics.RecordAttachment("none")
	return nil, nil
}

// Resolve maps a stored local file name to its path on disk.
func (s *Store) Resolve(name string) (string, bool) {
	for _, b := range s.backends {
		if local, ok := b.(*LocalBackend); ok {
			return local.Resolve(name)
		}
	}
	return "", false
}

// Discard deletes a previously saved attachment. Backends ignore references
// they did not produce.
func (s *Store) Discard(ctx context.Context, ref *domain.AttachmentRef) error {
	if ref == nil {
		return nil
	}
	var errs []error
	for _, b := range s.backends {
		r, ok := b.(remover)
		if !ok {
			continue
		}
		if err := r.Remove(ctx, ref); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}
