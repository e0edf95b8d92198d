package domain

import (
	"fmt"

	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// Kind identifies one of the three submission forms.
type Kind string

const (
	KindContact Kind = "contact"
	KindProject Kind = "project"
	KindCareer  Kind = "career"
)

// LeadStatus tracks follow-up on contact requests and project inquiries.
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusInProgress LeadStatus = "in-progress"
	LeadStatusCompleted  LeadStatus = "completed"
	LeadStatusArchived   LeadStatus = "archived"
)

var leadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusInProgress, LeadStatusCompleted, LeadStatusArchived,
}

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	for _, known := range leadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseLeadStatus validates raw against the lead status enumeration.
func ParseLeadStatus(raw string) (LeadStatus, error) {
	s := LeadStatus(raw)
	if !s.Valid() {
		return "", invalidStatus(raw, leadStatuses)
	}
	return s, nil
}

// ApplicationStatus tracks a career application through hiring.
type ApplicationStatus string

const (
	ApplicationStatusNew         ApplicationStatus = "new"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

var applicationStatuses = []ApplicationStatus{
	ApplicationStatusNew, ApplicationStatusReviewed, ApplicationStatusShortlisted,
	ApplicationStatusInterviewed, ApplicationStatusRejected, ApplicationStatusHired,
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	for _, known := range applicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseApplicationStatus validates raw against the application status enumeration.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", invalidStatus(raw, applicationStatuses)
	}
	return s, nil
}

func invalidStatus[T ~string](raw string, allowed []T) error {
	return apperrors.NewValidationError("Invalid status", map[string]string{
		"status": fmt.Sprintf("status %q is not one of %v", raw, allowed),
	})
}

// LeadUpdate is the admin patch applied to a submission. Nil fields are left unchanged.
type LeadUpdate struct {
	Status      *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (u LeadUpdate) Empty() bool {
	return u.Status == nil && u.Description == nil
}
