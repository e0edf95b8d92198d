package events

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated EventType = "submission_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string
	Type         EventType
	Kind         domain.Kind
	SubmissionID string
	Timestamp    time.Time
	Submission   domain.Submission
}

// SubmissionCreated builds the event published after a submission is persisted.
func SubmissionCreated(id string, sub domain.Submission, at time.Time) Event {
	return Event{
		ID:           id,
		Type:         EventSubmissionCreated,
		Kind:         sub.SubmissionKind(),
		SubmissionID: sub.SubmissionID(),
		Timestamp:    at,
		Submission:   sub,
	}
}
