package domain

import (
	"strings"
	"time"
)

// Submission is implemented by the three stored entity kinds.
type Submission interface {
	SubmissionKind() Kind
	SubmissionID() string
	SubmitterName() string
}

// Contact is a callback request from the website contact form.
type Contact struct {
	ID          string
	Name        string `validate:"required"`
	Email       string `validate:"required,basic_email"`
	Phone       string `validate:"required"`
	Status      LeadStatus
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Contact) SubmissionKind() Kind  { return KindContact }
func (c *Contact) SubmissionID() string  { return c.ID }
func (c *Contact) SubmitterName() string { return c.Name }

// Normalize trims input and applies creation defaults.
func (c *Contact) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Description = strings.TrimSpace(c.Description)
	if c.Status == "" {
		c.Status = LeadStatusNew
	}
}

// Validate checks required fields.
func (c *Contact) Validate() error {
	return validateStruct(c)
}

// Project is a project inquiry. At least one service or a custom service is required.
type Project struct {
	ID                  string
	Services            []string
	CustomService       string
	Industries          []string
	CustomIndustry      string
	Timeline            string `validate:"required"`
	Name                string `validate:"required"`
	Email               string `validate:"required,basic_email"`
	Phone               string `validate:"required"`
	Company             string
	ProjectDescription  string `validate:"required"`
	AdditionalQuestions string
	HowDidYouHear       string
	PreviousExperience  string
	Status              LeadStatus
	Description         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p *Project) SubmissionKind() Kind  { return KindProject }
func (p *Project) SubmissionID() string  { return p.ID }
func (p *Project) SubmitterName() string { return p.Name }

// Normalize trims input and applies creation defaults.
func (p *Project) Normalize() {
	p.Services = compact(p.Services)
	p.Industries = compact(p.Industries)
	p.CustomService = strings.TrimSpace(p.CustomService)
	p.CustomIndustry = strings.TrimSpace(p.CustomIndustry)
	p.Timeline = strings.TrimSpace(p.Timeline)
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Company = strings.TrimSpace(p.Company)
	p.ProjectDescription = strings.TrimSpace(p.ProjectDescription)
	p.AdditionalQuestions = strings.TrimSpace(p.AdditionalQuestions)
	p.HowDidYouHear = strings.TrimSpace(p.HowDidYouHear)
	p.PreviousExperience = strings.TrimSpace(p.PreviousExperience)
	p.Description = strings.TrimSpace(p.Description)
	if p.Status == "" {
		p.Status = LeadStatusNew
	}
}

// Validate checks required fields and the service selection rule.
func (p *Project) Validate() error {
	return validateStruct(p)
}

// Career is a job application, optionally carrying a résumé.
type Career struct {
	ID          string
	Name        string `validate:"required"`
	Email       string `validate:"required,basic_email"`
	Phone       string `validate:"required"`
	Position    string
	Experience  string
	Message     string `validate:"required"`
	Resume      *AttachmentRef
	Status      ApplicationStatus
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Career) SubmissionKind() Kind  { return KindCareer }
func (c *Career) SubmissionID() string  { return c.ID }
func (c *Career) SubmitterName() string { return c.Name }

// Normalize trims input and applies creation defaults.
func (c *Career) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Position = strings.TrimSpace(c.Position)
	c.Experience = strings.TrimSpace(c.Experience)
	c.Message = strings.TrimSpace(c.Message)
	c.Description = strings.TrimSpace(c.Description)
	if c.Status == "" {
		c.Status = ApplicationStatusNew
	}
}

// Validate checks required fields and the résumé reference shape.
func (c *Career) Validate() error {
	return validateStruct(c)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
