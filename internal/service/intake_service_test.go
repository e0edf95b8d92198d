package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/attachment"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

func validContact() *domain.Contact {
	return &domain.Contact{Name: " Ada ", Email: "ADA@Example.com", Phone: "555"}
}

func TestSubmitContactPersistsAndNotifies(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	contact, err := h.intake.SubmitContact(ctx, validContact(), Credentials{Token: "tok"})
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if contact.ID == "" || contact.Status != domain.LeadStatusNew {
		t.Fatalf("unexpected contact: %+v", contact)
	}
	if contact.Email != "ada@example.com" || contact.Name != "Ada" {
		t.Fatalf("input not normalized: %+v", contact)
	}
	if h.verifier.calls != 1 {
		t.Fatalf("verifier calls = %d", h.verifier.calls)
	}
	if h.sender.count() != 1 {
		t.Fatalf("sent = %d, want 1", h.sender.count())
	}
	if _, err := h.store.Contacts().GetByID(ctx, contact.ID); err != nil {
		t.Fatalf("stored contact missing: %v", err)
	}
}

func TestSubmitValidationRunsBeforeCaptcha(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.intake.SubmitContact(context.Background(), &domain.Contact{Name: "x"}, Credentials{})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if h.verifier.calls != 0 {
		t.Fatal("captcha should not be consulted for invalid input")
	}
	list, _ := h.store.Contacts().List(context.Background())
	if len(list) != 0 {
		t.Fatalf("nothing should be stored, got %d", len(list))
	}
}

func TestSubmitCaptchaFailureStoresNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.verifier.err = errors.New("invalid-input-response")

	_, err := h.intake.SubmitContact(context.Background(), validContact(), Credentials{Token: "bad"})
	if !apperrors.HasCode(err, apperrors.CodeCaptchaFailed) {
		t.Fatalf("expected captcha error, got %v", err)
	}
	list, _ := h.store.Contacts().List(context.Background())
	if len(list) != 0 || h.sender.count() != 0 {
		t.Fatalf("stored=%d sent=%d, want none", len(list), h.sender.count())
	}
}

func TestSubmitSucceedsWhenNotificationFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.sender.err = errors.New("smtp down")

	project := &domain.Project{
		Services:           []string{"web", " "},
		Timeline:           "asap",
		Name:               "Grace",
		Email:              "grace@example.com",
		Phone:              "1",
		ProjectDescription: "A site",
	}
	got, err := h.intake.SubmitProject(context.Background(), project, Credentials{})
	if err != nil {
		t.Fatalf("SubmitProject: %v", err)
	}
	if len(got.Services) != 1 {
		t.Fatalf("services not compacted: %v", got.Services)
	}
	if h.sender.count() != 1 {
		t.Fatalf("expected one attempted send, got %d", h.sender.count())
	}
}

func TestSubmitProjectRequiresService(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	project := &domain.Project{
		Timeline: "asap", Name: "G", Email: "g@example.com", Phone: "1", ProjectDescription: "d",
	}
	_, err := h.intake.SubmitProject(context.Background(), project, Credentials{})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitCareerRejectsUnsupportedResume(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	career := &domain.Career{Name: "Lin", Email: "lin@example.com", Phone: "1", Message: "hi"}
	resume := &attachment.Upload{FileName: "cv.exe", ContentType: "application/octet-stream", Size: 10}
	_, err := h.intake.SubmitCareer(context.Background(), career, resume, Credentials{})
	if !apperrors.HasCode(err, apperrors.CodeUnsupportedFileType) {
		t.Fatalf("expected unsupported file type, got %v", err)
	}
	list, _ := h.store.Careers().List(context.Background())
	if len(list) != 0 {
		t.Fatalf("nothing should be stored, got %d", len(list))
	}
}

func TestSubmitCareerWithoutResume(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	career := &domain.Career{Name: "Lin", Email: "lin@example.com", Phone: "1", Message: "hi"}
	got, err := h.intake.SubmitCareer(context.Background(), career, nil, Credentials{})
	if err != nil {
		t.Fatalf("SubmitCareer: %v", err)
	}
	if got.Resume != nil || got.Status != domain.ApplicationStatusNew {
		t.Fatalf("unexpected career: %+v", got)
	}
}

type failingCareers struct {
	repository.CareerRepository
}

func (failingCareers) Create(context.Context, *domain.Career) error {
	return errors.New("connection reset")
}

type recordingSaver struct {
	ref       *domain.AttachmentRef
	discarded []*domain.AttachmentRef
}

func (s *recordingSaver) Save(context.Context, attachment.Upload, string) (*domain.AttachmentRef, error) {
	return s.ref, nil
}

func (s *recordingSaver) Discard(_ context.Context, ref *domain.AttachmentRef) error {
	s.discarded = append(s.discarded, ref)
	return nil
}

func TestSubmitCareerDiscardsResumeWhenPersistFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	saver := &recordingSaver{ref: &domain.AttachmentRef{Local: &domain.LocalFile{Path: "/tmp/lin.pdf", FileName: "lin.pdf"}}}
	intake := NewIntakeService(IntakeDependencies{
		ContactRepo: h.store.Contacts(),
		ProjectRepo: h.store.Projects(),
		CareerRepo:  failingCareers{h.store.Careers()},
		Verifier:    h.verifier,
		Attachments: saver,
		Logger:      zap.NewNop(),
	})

	career := &domain.Career{Name: "Lin", Email: "lin@example.com", Phone: "1", Message: "hi"}
	resume := &attachment.Upload{FileName: "cv.pdf", ContentType: "application/pdf", Size: 10}
	_, err := intake.SubmitCareer(context.Background(), career, resume, Credentials{})
	if !apperrors.HasCode(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(saver.discarded) != 1 || saver.discarded[0] != saver.ref {
		t.Fatalf("discarded = %v, want the saved resume", saver.discarded)
	}
	if career.Resume != nil {
		t.Fatal("career should not keep a discarded resume")
	}
}
