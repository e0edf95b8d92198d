package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/attachment"
	"github.com/spec-kit/lead-service/internal/service"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// IntakeHandler serves the public submission forms.
type IntakeHandler struct {
	service *service.IntakeService
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(intake *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{service: intake}
}

// Contact handles POST /api/contact.
func (h *IntakeHandler) Contact(c *fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	contact, err := h.service.SubmitContact(c.UserContext(), req.Domain(), credentials(c, req.Captcha))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("Callback request submitted successfully", dto.NewContactResponse(contact)))
}

// Project handles POST /api/project.
func (h *IntakeHandler) Project(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	project, err := h.service.SubmitProject(c.UserContext(), req.Domain(), credentials(c, req.Captcha))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("Project inquiry submitted successfully", dto.NewProjectResponse(project)))
}

// Career handles POST /api/career, accepting JSON or multipart with an
// optional "resume" file.
func (h *IntakeHandler) Career(c *fiber.Ctx) error {
	var req dto.CreateCareerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resume, err := resumeUpload(c)
	if err != nil {
		return err
	}
	career, err := h.service.SubmitCareer(c.UserContext(), req.Domain(), resume, credentials(c, req.Captcha))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("Career application submitted successfully", dto.NewCareerResponse(career)))
}

func credentials(c *fiber.Ctx, captcha dto.Captcha) service.Credentials {
	return service.Credentials{Token: captcha.Token(), RemoteIP: c.IP()}
}

// parseBody decodes JSON, urlencoded or multipart bodies. An empty body
// leaves out untouched so field validation reports what is missing.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	return nil
}

func resumeUpload(c *fiber.Ctx) (*attachment.Upload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid multipart form", nil)
	}
	files := form.File["resume"]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	return &attachment.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
