package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("https://cdn.example.com/logo.png")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	r.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return r
}

func TestProjectEmailEmptyListsAndOptionalSections(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	msg, err := r.NewSubmission(&domain.Project{
		CustomService:      "Other",
		Timeline:           "3-4",
		Name:               "Grace",
		Email:              "grace@example.com",
		Phone:              "555",
		ProjectDescription: "Build a compiler",
	})
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if msg.Subject != "New Project Inquiry - Grace" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if got := strings.Count(msg.HTML, "None selected"); got != 2 {
		t.Fatalf("None selected count = %d, want 2", got)
	}
	if !strings.Contains(msg.HTML, "3-4 months") {
		t.Fatal("expected timeline label")
	}
	for _, absent := range []string{"Additional Questions", "How did they hear about us", "Previous Experience", "Company:", "Custom Industry"} {
		if strings.Contains(msg.HTML, absent) {
			t.Fatalf("email should omit %q", absent)
		}
	}
	if !strings.Contains(msg.HTML, "Custom Service") {
		t.Fatal("expected custom service line")
	}
}

func TestProjectEmailListsServices(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	msg, err := r.NewSubmission(&domain.Project{
		Services:           []string{"Web", "Mobile"},
		Industries:         []string{"Retail"},
		Timeline:           "next quarter",
		Name:               "Grace",
		ProjectDescription: "x",
		HowDidYouHear:      "Search",
	})
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if strings.Contains(msg.HTML, "None selected") {
		t.Fatal("unexpected None selected")
	}
	for _, want := range []string{"<li>Web</li>", "<li>Mobile</li>", "<li>Retail</li>", "next quarter", "How did they hear about us"} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("email missing %q", want)
		}
	}
}

func TestCareerEmailSubjectAndResume(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	msg, err := r.NewSubmission(&domain.Career{
		Name:     "Linus",
		Position: "Kernel Engineer",
		Message:  "Hello",
		Resume: &domain.AttachmentRef{Remote: &domain.RemoteFile{
			URL: "https://res.cloudinary.com/demo/raw/upload/cv.pdf", FileName: "cv.pdf",
		}},
	})
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if msg.Subject != "New Career Application - Linus (Kernel Engineer)" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "View Resume") || !strings.Contains(msg.HTML, "cv.pdf") {
		t.Fatal("expected resume section with link")
	}

	msg, err = r.NewSubmission(&domain.Career{Name: "Ada", Message: "Hi"})
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if msg.Subject != "New Career Application - Ada" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if strings.Contains(msg.HTML, "Resume") {
		t.Fatal("resume section should be omitted without an attachment")
	}
}

func TestLeadUpdateEmail(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	msg, err := r.LeadUpdate(&domain.Contact{Name: "Ada", Email: "ada@example.com", Phone: "1", Status: domain.LeadStatusContacted})
	if err != nil {
		t.Fatalf("LeadUpdate: %v", err)
	}
	if msg.Subject != "Lead Update - Contact Request: Ada" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "contacted") {
		t.Fatal("expected status in body")
	}
	if strings.Contains(msg.HTML, "Notes/Description") {
		t.Fatal("notes should be omitted when empty")
	}

	msg, err = r.LeadUpdate(&domain.Career{Name: "Linus", Status: domain.ApplicationStatusHired, Description: "Offer accepted"})
	if err != nil {
		t.Fatalf("LeadUpdate: %v", err)
	}
	if msg.Subject != "Lead Update - Career Application: Linus" || !strings.Contains(msg.HTML, "Offer accepted") {
		t.Fatalf("career lead update = %q", msg.Subject)
	}
}

func TestRenderEscapesInput(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	msg, err := r.NewSubmission(&domain.Contact{Name: "<script>alert(1)</script>", Email: "a@b.co", Phone: "1"})
	if err != nil {
		t.Fatalf("NewSubmission: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatal("submitter input was not escaped")
	}
}

func TestTimelineLabel(t *testing.T) {
	t.Parallel()

	if TimelineLabel("asap") != "ASAP" || TimelineLabel("6+") != "6+ months" || TimelineLabel("custom") != "custom" {
		t.Fatal("unexpected timeline labels")
	}
}
