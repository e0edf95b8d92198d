package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/attachment"
	"github.com/spec-kit/lead-service/internal/captcha"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// AttachmentSaver stores an uploaded file for a submitter and can delete it
// again when the submission that owns it is not persisted.
type AttachmentSaver interface {
	Save(ctx context.Context, u attachment.Upload, owner string) (*domain.AttachmentRef, error)
	Discard(ctx context.Context, ref *domain.AttachmentRef) error
}

// Credentials is the CAPTCHA proof sent with a public submission.
type Credentials struct {
	Token    string
	RemoteIP string
}

// IntakeService runs the public submission pipeline: validate, verify the
// CAPTCHA, resolve attachments, persist, then publish a notification event
// without waiting on it.
type IntakeService struct {
	contacts    repository.ContactRepository
	projects    repository.ProjectRepository
	careers     repository.CareerRepository
	verifier    captcha.Verifier
	attachments AttachmentSaver
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	ContactRepo repository.ContactRepository
	ProjectRepo repository.ProjectRepository
	CareerRepo  repository.CareerRepository
	Verifier    captcha.Verifier
	Attachments AttachmentSaver
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewIntakeService builds the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		contacts:    deps.ContactRepo,
		projects:    deps.ProjectRepo,
		careers:     deps.CareerRepo,
		verifier:    deps.Verifier,
		attachments: deps.Attachments,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

// SubmitContact accepts a callback request.
func (s *IntakeService) SubmitContact(ctx context.Context, contact *domain.Contact, cred Credentials) (*domain.Contact, error) {
	contact.Normalize()
	err := s.run(ctx, contact, contact.Validate, cred, nil, func() error {
		return s.contacts.Create(ctx, contact)
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// SubmitProject accepts a project inquiry.
func (s *IntakeService) SubmitProject(ctx context.Context, project *domain.Project, cred Credentials) (*domain.Project, error) {
	project.Normalize()
	err := s.run(ctx, project, project.Validate, cred, nil, func() error {
		return s.projects.Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// SubmitCareer accepts a job application with an optional résumé.
func (s *IntakeService) SubmitCareer(ctx context.Context, career *domain.Career, resume *attachment.Upload, cred Credentials) (*domain.Career, error) {
	career.Normalize()
	resolve := func() error {
		if resume == nil {
			return nil
		}
		if s.attachments == nil {
			return attachment.Check(*resume)
		}
		ref, err := s.attachments.Save(ctx, *resume, career.Name)
		if err != nil {
			return err
		}
		career.Resume = ref
		return nil
	}
	err := s.run(ctx, career, career.Validate, cred, resolve, func() error {
		err := s.careers.Create(ctx, career)
		if err != nil && career.Resume != nil && s.attachments != nil {
			if derr := s.attachments.Discard(context.WithoutCancel(ctx), career.Resume); derr != nil {
				s.logger.Warn("discard orphaned resume failed", zap.Error(derr))
			}
			career.Resume = nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return career, nil
}

func (s *IntakeService) run(ctx context.Context, sub domain.Submission, validate func() error, cred Credentials, resolve, persist func() error) error {
	kind := zap.String("kind", string(sub.SubmissionKind()))

	if err := validate(); err != nil {
		return err
	}

	if err := s.verifier.Verify(ctx, cred.Token, cred.RemoteIP); err != nil {
		s.logger.Info("captcha rejected submission", kind, zap.Error(err))
		return apperrors.NewCaptchaFailed(err)
	}

	if resolve != nil {
		if err := resolve(); err != nil {
			return err
		}
	}

	if err := persist(); err != nil {
		var derr *apperrors.DomainError
		if !errors.As(err, &derr) {
			err = apperrors.NewStorageError(err)
		}
		s.logger.Error("persist submission failed", kind, zap.Error(err))
		return err
	}
	s.metrics.RecordSubmission(string(sub.SubmissionKind()))

	if s.dispatcher != nil {
		event := events.SubmissionCreated(uuid.NewString(), sub, s.now())
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish submission event failed", kind, zap.String("submission_id", sub.SubmissionID()), zap.Error(err))
		}
	}
	return nil
}
