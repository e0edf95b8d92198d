package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/spec-kit/lead-service/internal/domain"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// LocalBackend writes uploads beneath a directory on disk.
type LocalBackend struct {
	dir string
	now func() time.Time
}

// NewLocalBackend creates dir when missing and verifies it is writable.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if dir == "" {
		return nil, errors.New("upload directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("upload dir not writable: %w", err)
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return &LocalBackend{dir: dir, now: time.Now}, nil
}

func (b *LocalBackend) Name() string { return "local" }

// Dir returns the upload directory.
func (b *LocalBackend) Dir() string { return b.dir }

// FileName derives the stored name: sanitized owner, date and time, original extension.
func FileName(owner, original string, at time.Time) string {
	base := strings.ToLower(nonAlphanumeric.ReplaceAllString(strings.TrimSpace(owner), "_"))
	if base == "" {
		base = "candidate"
	}
	return fmt.Sprintf("%s_%s_%s%s", base, at.Format("2006-01-02"), at.Format("15-04-05"), strings.ToLower(filepath.Ext(original)))
}

func (b *LocalBackend) Put(_ context.Context, u Upload, owner string) (*domain.AttachmentRef, error) {
	src, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := FileName(owner, u.FileName, b.now())
	dst, name, err := b.create(name)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(b.dir, name)
	if _, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1)); err != nil {
		dst.Close()
		_ = os.Remove(full)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full)
		return nil, fmt.Errorf("close upload: %w", err)
	}

	contentType := u.MediaType()
	if mt, err := mimetype.DetectFile(full); err == nil {
		contentType = mt.String()
	}

	return &domain.AttachmentRef{Local: &domain.LocalFile{
		Path:        full,
		FileName:    name,
		ContentType: contentType,
	}}, nil
}

// create opens name exclusively, appending a counter when it already exists.
func (b *LocalBackend) create(name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i <= 100; i++ {
		f, err := os.OpenFile(filepath.Join(b.dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create upload file: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	return nil, "", fmt.Errorf("create upload file: too many collisions for %s", name)
}

// Resolve maps a client-supplied file name to a path inside the directory.
func (b *LocalBackend) Resolve(name string) (string, bool) {
	clean := filepath.Base(filepath.Clean("/" + name))
	if clean == "/" || clean == "." || clean == ".." || strings.HasPrefix(clean, ".") {
		return "", false
	}
	return filepath.Join(b.dir, clean), true
}

// Remove deletes a file this backend wrote. A file already gone is not an error.
func (b *LocalBackend) Remove(_ context.Context, ref *domain.AttachmentRef) error {
	if ref == nil || ref.Local == nil {
		return nil
	}
	full, ok := b.Resolve(ref.Local.FileName)
	if !ok || full != ref.Local.Path {
		return nil
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
