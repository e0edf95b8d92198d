package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-service/internal/domain"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// MemoryStore keeps every repository in process memory. It backs local
// development without a database and doubles as a test fake.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	seq      int64
	contacts map[string]memRecord[domain.Contact]
	projects map[string]memRecord[domain.Project]
	careers  map[string]memRecord[domain.Career]
	admins   map[string]domain.Admin
}

type memRecord[T any] struct {
	seq   int64
	value T
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns an empty store stamping records with now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		now:      now,
		contacts: map[string]memRecord[domain.Contact]{},
		projects: map[string]memRecord[domain.Project]{},
		careers:  map[string]memRecord[domain.Career]{},
		admins:   map[string]domain.Admin{},
	}
}

func (s *MemoryStore) Contacts() ContactRepository { return memContacts{s} }
func (s *MemoryStore) Projects() ProjectRepository { return memProjects{s} }
func (s *MemoryStore) Careers() CareerRepository   { return memCareers{s} }
func (s *MemoryStore) Admins() AdminRepository     { return memAdmins{s} }

// newest orders records by creation time, then insertion order, newest first.
func newest[T any](records map[string]memRecord[T], created func(T) time.Time) []T {
	all := make([]memRecord[T], 0, len(records))
	for _, r := range records {
		all = append(all, r)
	}
	slices.SortFunc(all, func(a, b memRecord[T]) int {
		if c := created(b.value).Compare(created(a.value)); c != 0 {
			return c
		}
		return int(b.seq - a.seq)
	})
	out := make([]T, len(all))
	for i, r := range all {
		out[i] = r.value
	}
	return out
}

func (s *MemoryStore) stamp() (int64, time.Time) {
	s.seq++
	return s.seq, s.now().UTC()
}

type memContacts struct{ s *MemoryStore }

func (m memContacts) Create(_ context.Context, contact *domain.Contact) error {
	contact.Normalize()
	if err := contact.Validate(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	seq, now := m.s.stamp()
	contact.ID = uuid.NewString()
	contact.CreatedAt, contact.UpdatedAt = now, now
	m.s.contacts[contact.ID] = memRecord[domain.Contact]{seq: seq, value: *contact}
	return nil
}

func (m memContacts) List(context.Context) ([]domain.Contact, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return newest(m.s.contacts, func(c domain.Contact) time.Time { return c.CreatedAt }), nil
}

func (m memContacts) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.contacts[id]
	if !ok {
		return nil, apperrors.NewNotFound("Contact request", map[string]any{"id": id})
	}
	c := rec.value
	return &c, nil
}

func (m memContacts) Update(_ context.Context, id string, patch domain.LeadUpdate) (*domain.Contact, error) {
	status, err := leadStatusArg(patch.Status)
	if err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.contacts[id]
	if !ok {
		return nil, apperrors.NewNotFound("Contact request", map[string]any{"id": id})
	}
	if status != nil {
		rec.value.Status = domain.LeadStatus(*status)
	}
	if patch.Description != nil {
		rec.value.Description = *patch.Description
	}
	rec.value.UpdatedAt = m.s.now().UTC()
	m.s.contacts[id] = rec
	c := rec.value
	return &c, nil
}

type memProjects struct{ s *MemoryStore }

func (m memProjects) Create(_ context.Context, project *domain.Project) error {
	project.Normalize()
	if err := project.Validate(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	seq, now := m.s.stamp()
	project.ID = uuid.NewString()
	project.CreatedAt, project.UpdatedAt = now, now
	stored := *project
	stored.Services = slices.Clone(project.Services)
	stored.Industries = slices.Clone(project.Industries)
	m.s.projects[project.ID] = memRecord[domain.Project]{seq: seq, value: stored}
	return nil
}

func (m memProjects) List(context.Context) ([]domain.Project, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return newest(m.s.projects, func(p domain.Project) time.Time { return p.CreatedAt }), nil
}

func (m memProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.projects[id]
	if !ok {
		return nil, apperrors.NewNotFound("Project inquiry", map[string]any{"id": id})
	}
	p := rec.value
	return &p, nil
}

func (m memProjects) Update(_ context.Context, id string, patch domain.LeadUpdate) (*domain.Project, error) {
	status, err := leadStatusArg(patch.Status)
	if err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.projects[id]
	if !ok {
		return nil, apperrors.NewNotFound("Project inquiry", map[string]any{"id": id})
	}
	if status != nil {
		rec.value.Status = domain.LeadStatus(*status)
	}
	if patch.Description != nil {
		rec.value.Description = *patch.Description
	}
	rec.value.UpdatedAt = m.s.now().UTC()
	m.s.projects[id] = rec
	p := rec.value
	return &p, nil
}

type memCareers struct{ s *MemoryStore }

func (m memCareers) Create(_ context.Context, career *domain.Career) error {
	career.Normalize()
	if err := career.Validate(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	seq, now := m.s.stamp()
	career.ID = uuid.NewString()
	career.CreatedAt, career.UpdatedAt = now, now
	m.s.careers[career.ID] = memRecord[domain.Career]{seq: seq, value: *career}
	return nil
}

func (m memCareers) List(context.Context) ([]domain.Career, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return newest(m.s.careers, func(c domain.Career) time.Time { return c.CreatedAt }), nil
}

func (m memCareers) GetByID(_ context.Context, id string) (*domain.Career, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	rec, ok := m.s.careers[id]
	if !ok {
		return nil, apperrors.NewNotFound("Career application", map[string]any{"id": id})
	}
	c := rec.value
	return &c, nil
}

func (m memCareers) Update(_ context.Context, id string, patch domain.LeadUpdate) (*domain.Career, error) {
	status, err := applicationStatusArg(patch.Status)
	if err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.careers[id]
	if !ok {
		return nil, apperrors.NewNotFound("Career application", map[string]any{"id": id})
	}
	if status != nil {
		rec.value.Status = domain.ApplicationStatus(*status)
	}
	if patch.Description != nil {
		rec.value.Description = *patch.Description
	}
	rec.value.UpdatedAt = m.s.now().UTC()
	m.s.careers[id] = rec
	c := rec.value
	return &c, nil
}

type memAdmins struct{ s *MemoryStore }

func (m memAdmins) Create(_ context.Context, admin *domain.Admin) error {
	admin.Username = strings.ToLower(strings.TrimSpace(admin.Username))
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.admins {
		if a.Username == admin.Username || a.Email == admin.Email {
			return ErrDuplicate
		}
	}
	_, now := m.s.stamp()
	admin.ID = uuid.NewString()
	admin.CreatedAt, admin.UpdatedAt = now, now
	m.s.admins[admin.ID] = *admin
	return nil
}

func (m memAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	a, ok := m.s.admins[id]
	if !ok {
		return nil, apperrors.NewNotFound("Admin", map[string]any{"id": id})
	}
	return &a, nil
}

func (m memAdmins) GetByLogin(_ context.Context, identifier string) (*domain.Admin, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, a := range m.s.admins {
		if a.Username == identifier || a.Email == identifier {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFound("Admin", nil)
}

func (m memAdmins) Exists(_ context.Context, username, email string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, a := range m.s.admins {
		if a.Username == username || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}
