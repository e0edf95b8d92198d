package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/mail"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// LeadRepository is the admin-facing subset of a submission repository.
type LeadRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, patch domain.LeadUpdate) (*T, error)
}

// LeadNotifier sends the admin-triggered lead summary.
type LeadNotifier interface {
	NotifyLeadUpdate(ctx context.Context, sub domain.Submission) error
}

// ResendResult reports what the resend operation did.
type ResendResult int

const (
	ResendSent ResendResult = iota
	ResendSkipped
)

// LeadService serves listing, status updates and email resends for one
// submission kind.
type LeadService[T any] struct {
	kind     domain.Kind
	repo     LeadRepository[T]
	notifier LeadNotifier
	logger   *zap.Logger
}

// NewLeadService builds the service for kind.
func NewLeadService[T any](kind domain.Kind, repo LeadRepository[T], notifier LeadNotifier, logger *zap.Logger) *LeadService[T] {
	return &LeadService[T]{kind: kind, repo: repo, notifier: notifier, logger: logger}
}

// Kind returns the submission kind served.
func (s *LeadService[T]) Kind() domain.Kind {
	return s.kind
}

// List returns all records, newest first.
func (s *LeadService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Get returns one record.
func (s *LeadService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the status/description patch. An empty patch returns the
// record unchanged.
func (s *LeadService[T]) Update(ctx context.Context, id string, patch domain.LeadUpdate) (*T, error) {
	if patch.Empty() {
		return s.repo.GetByID(ctx, id)
	}
	rec, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("lead updated", zap.String("kind", string(s.kind)), zap.String("id", id))
	return rec, nil
}

// Resend emails the record's current state and waits for delivery. The record
// is never modified.
func (s *LeadService[T]) Resend(ctx context.Context, id string) (ResendResult, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ResendSent, err
	}
	sub, ok := any(rec).(domain.Submission)
	if !ok {
		return ResendSent, apperrors.NewInternalError(fmt.Errorf("%T is not a submission", rec))
	}
	if err := s.notifier.NotifyLeadUpdate(ctx, sub); err != nil {
		if errors.Is(err, mail.ErrDisabled) {
			return ResendSkipped, nil
		}
		return ResendSent, apperrors.NewNotificationError(err)
	}
	return ResendSent, nil
}
