package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// ResumeResolver maps a stored résumé file name to a path on disk.
type ResumeResolver interface {
	Resolve(name string) (string, bool)
}

// ResumeHandler streams locally stored résumés to admins.
type ResumeHandler struct {
	files ResumeResolver
}

// NewResumeHandler constructs handler.
func NewResumeHandler(files ResumeResolver) *ResumeHandler {
	return &ResumeHandler{files: files}
}

// Download handles GET /api/career/resume/:filename.
func (h *ResumeHandler) Download(c *fiber.Ctx) error {
	name := c.Params("filename")
	notFound := apperrors.NewNotFound("Resume", map[string]any{"filename": name})

	path, ok := h.files.Resolve(name)
	if !ok {
		return notFound
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound
		}
		return apperrors.NewInternalError(err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return notFound
	}

	contentType := fiber.MIMEOctetStream
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filepath.Base(path)))
	return c.SendStream(f, int(info.Size()))
}
