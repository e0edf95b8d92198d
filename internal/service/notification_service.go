package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/mail"
	"github.com/spec-kit/lead-service/internal/observability"
)

const (
	notifyCreated    = "created"
	notifyLeadUpdate = "lead_update"
)

// NotificationService renders and sends staff emails about submissions.
type NotificationService struct {
	dispatcher events.Dispatcher
	renderer   *mail.Renderer
	sender     mail.Sender
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, renderer *mail.Renderer, sender mail.Sender, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		renderer:   renderer,
		sender:     sender,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionCreated, n.handleSubmissionCreated)
}

// handleSubmissionCreated never reports failure: the submission is already committed.
func (n *NotificationService) handleSubmissionCreated(ctx context.Context, event events.Event) error {
	if err := n.NotifyNewSubmission(ctx, event.Submission); err != nil {
		n.logger.Error("submission notification failed",
			zap.String("kind", string(event.Kind)),
			zap.String("submission_id", event.SubmissionID),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
	return nil
}

// NotifyNewSubmission emails staff about a new submission. It is a no-op when
// mail is not configured.
func (n *NotificationService) NotifyNewSubmission(ctx context.Context, sub domain.Submission) error {
	kind := string(sub.SubmissionKind())
	if !n.sender.Enabled() {
		n.logger.Debug("mail not configured; skipping notification", zap.String("kind", kind))
		n.metrics.RecordNotificationSkipped(kind, notifyCreated)
		return nil
	}
	msg, err := n.renderer.NewSubmission(sub)
	if err == nil {
		err = n.sender.Send(ctx, msg)
	}
	n.metrics.RecordNotification(kind, notifyCreated, err)
	if err != nil {
		return err
	}
	n.logger.Info("submission notification sent",
		zap.String("kind", kind),
		zap.String("submission_id", sub.SubmissionID()))
	return nil
}

// NotifyLeadUpdate emails the current status and notes of a submission and
// reports any failure. It returns mail.ErrDisabled when mail is not configured.
func (n *NotificationService) NotifyLeadUpdate(ctx context.Context, sub domain.Submission) error {
	kind := string(sub.SubmissionKind())
	if !n.sender.Enabled() {
		n.metrics.RecordNotificationSkipped(kind, notifyLeadUpdate)
		return mail.ErrDisabled
	}
	msg, err := n.renderer.LeadUpdate(sub)
	if err == nil {
		err = n.sender.Send(ctx, msg)
	}
	n.metrics.RecordNotification(kind, notifyLeadUpdate, err)
	if err != nil {
		n.logger.Error("lead update email failed",
			zap.String("kind", kind),
			zap.String("submission_id", sub.SubmissionID()),
			zap.Error(err))
		return err
	}
	return nil
}
