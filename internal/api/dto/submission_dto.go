package dto

import (
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

// Captcha carries the Turnstile token under either accepted field name.
type Captcha struct {
	CaptchaToken      string `json:"captchaToken" form:"captchaToken"`
	TurnstileResponse string `json:"cf-turnstile-response" form:"cf-turnstile-response"`
}

// Token returns whichever token field was sent.
func (c Captcha) Token() string {
	if c.CaptchaToken != "" {
		return c.CaptchaToken
	}
	return c.TurnstileResponse
}

// CreateContactRequest payload for POST /api/contact.
type CreateContactRequest struct {
	Captcha
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
}

// Domain converts the payload.
func (r CreateContactRequest) Domain() *domain.Contact {
	return &domain.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// CreateProjectRequest payload for POST /api/project.
type CreateProjectRequest struct {
	Captcha
	Services            []string `json:"services" form:"services"`
	CustomService       string   `json:"customService" form:"customService"`
	Industries          []string `json:"industries" form:"industries"`
	CustomIndustry      string   `json:"customIndustry" form:"customIndustry"`
	Timeline            string   `json:"timeline" form:"timeline"`
	Name                string   `json:"name" form:"name"`
	Email               string   `json:"email" form:"email"`
	Phone               string   `json:"phone" form:"phone"`
	Company             string   `json:"company" form:"company"`
	ProjectDescription  string   `json:"projectDescription" form:"projectDescription"`
	AdditionalQuestions string   `json:"additionalQuestions" form:"additionalQuestions"`
	HowDidYouHear       string   `json:"howDidYouHear" form:"howDidYouHear"`
	PreviousExperience  string   `json:"previousExperience" form:"previousExperience"`
}

// Domain converts the payload.
func (r CreateProjectRequest) Domain() *domain.Project {
	return &domain.Project{
		Services:            r.Services,
		CustomService:       r.CustomService,
		Industries:          r.Industries,
		CustomIndustry:      r.CustomIndustry,
		Timeline:            r.Timeline,
		Name:                r.Name,
		Email:               r.Email,
		Phone:               r.Phone,
		Company:             r.Company,
		ProjectDescription:  r.ProjectDescription,
		AdditionalQuestions: r.AdditionalQuestions,
		HowDidYouHear:       r.HowDidYouHear,
		PreviousExperience:  r.PreviousExperience,
	}
}

// CreateCareerRequest carries the text fields of POST /api/career. The résumé
// arrives as the multipart file field "resume".
type CreateCareerRequest struct {
	Captcha
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Phone      string `json:"phone" form:"phone"`
	Position   string `json:"position" form:"position"`
	Experience string `json:"experience" form:"experience"`
	Message    string `json:"message" form:"message"`
}

// Domain converts the payload.
func (r CreateCareerRequest) Domain() *domain.Career {
	return &domain.Career{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Position:   r.Position,
		Experience: r.Experience,
		Message:    r.Message,
	}
}

// UpdateLeadRequest payload for PUT /api/{kind}/:id.
type UpdateLeadRequest struct {
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// Domain converts the payload.
func (r UpdateLeadRequest) Domain() domain.LeadUpdate {
	return domain.LeadUpdate{Status: r.Status, Description: r.Description}
}

// ContactResponse is a stored contact request.
type ContactResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewContactResponse maps a contact.
func NewContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Status:      string(c.Status),
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ProjectResponse is a stored project inquiry.
type ProjectResponse struct {
	ID                  string    `json:"id"`
	Services            []string  `json:"services"`
	CustomService       string    `json:"customService,omitempty"`
	Industries          []string  `json:"industries"`
	CustomIndustry      string    `json:"customIndustry,omitempty"`
	Timeline            string    `json:"timeline"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Company             string    `json:"company,omitempty"`
	ProjectDescription  string    `json:"projectDescription"`
	AdditionalQuestions string    `json:"additionalQuestions,omitempty"`
	HowDidYouHear       string    `json:"howDidYouHear,omitempty"`
	PreviousExperience  string    `json:"previousExperience,omitempty"`
	Status              string    `json:"status"`
	Description         string    `json:"description,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewProjectResponse maps a project inquiry.
func NewProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:                  p.ID,
		Services:            nonNil(p.Services),
		CustomService:       p.CustomService,
		Industries:          nonNil(p.Industries),
		CustomIndustry:      p.CustomIndustry,
		Timeline:            p.Timeline,
		Name:                p.Name,
		Email:               p.Email,
		Phone:               p.Phone,
		Company:             p.Company,
		ProjectDescription:  p.ProjectDescription,
		AdditionalQuestions: p.AdditionalQuestions,
		HowDidYouHear:       p.HowDidYouHear,
		PreviousExperience:  p.PreviousExperience,
		Status:              string(p.Status),
		Description:         p.Description,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// CareerResponse is a stored career application. Only the résumé fields of
// the stored variant are set.
type CareerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Position       string    `json:"position,omitempty"`
	Experience     string    `json:"experience,omitempty"`
	Message        string    `json:"message"`
	ResumePath     string    `json:"resumePath,omitempty"`
	ResumeFileName string    `json:"resumeFileName,omitempty"`
	ResumeURL      string    `json:"resumeUrl,omitempty"`
	ResumePublicID string    `json:"resumePublicId,omitempty"`
	Status         string    `json:"status"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewCareerResponse maps a career application.
func NewCareerResponse(c *domain.Career) CareerResponse {
	resp := CareerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Position:       c.Position,
		Experience:     c.Experience,
		Message:        c.Message,
		ResumeFileName: c.Resume.FileName(),
		Status:         string(c.Status),
		Description:    c.Description,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	switch {
	case c.Resume.IsRemote():
		resp.ResumeURL = c.Resume.Remote.URL
		resp.ResumePublicID = c.Resume.Remote.ProviderID
	case c.Resume.IsLocal():
		resp.ResumePath = c.Resume.Local.Path
	}
	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
