package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nexosphere/backend/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrEmptyUpdate     = errors.New("update payload is empty")
)

// ProfileService is the profiles collection boundary. Connections are
// maintained through AddConnection/SetConnections so the symmetric-edge
// bookkeeping stays in one place instead of leaking into callers.
type ProfileService interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	ListExcept(ctx context.Context, excludeID string) ([]*models.Profile, error)
	Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
	Delete(ctx context.Context, id string) error
	AddConnection(ctx context.Context, id, peerID string) error
	SetConnections(ctx context.Context, id string, connections []string) error
}

// MemoryProfileService is an in-memory ProfileService used by tests and
// local development.
type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // profileID -> profile
	byEmail  map[string]string          // email -> profileID
	writes   int
}

func NewMemoryProfileService() *MemoryProfileService {
	return &MemoryProfileService{
		profiles: make(map[string]*models.Profile),
		byEmail:  make(map[string]string),
	}
}

// WriteCount returns the number of mutating calls performed so far.
func (s *MemoryProfileService) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *MemoryProfileService) Create(ctx context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[p.ContactInfo.Email]; exists {
		return ErrEmailExists
	}

	s.writes++
	cp := cloneProfile(p)
	s.profiles[cp.ID] = cp
	s.byEmail[cp.ContactInfo.Email] = cp.ID
	return nil
}

func (s *MemoryProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.profiles[id]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (s *MemoryProfileService) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return cloneProfile(s.profiles[id]), nil
}

func (s *MemoryProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (s *MemoryProfileService) ListExcept(ctx context.Context, excludeID string) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for id, p := range s.profiles {
		if id == excludeID {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (s *MemoryProfileService) Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		return nil, ErrProfileNotFound
	}

	s.writes++
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Headline != nil {
		p.Headline = *req.Headline
	}
	if req.Pronouns != nil {
		p.Pronouns = *req.Pronouns
	}
	if req.About != nil {
		p.About = *req.About
	}
	if req.Location != nil {
		loc := *req.Location
		p.Location = &loc
	}
	if req.Skills != nil {
		p.Skills = append([]string(nil), *req.Skills...)
	}
	if req.Connections != nil {
		p.Connections = append([]string(nil), *req.Connections...)
	}
	if req.Posts != nil {
		p.Posts = append([]string(nil), *req.Posts...)
	}
	p.UpdatedAt = time.Now().UTC()

	return cloneProfile(p), nil
}

func (s *MemoryProfileService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		return ErrProfileNotFound
	}

	s.writes++
	delete(s.byEmail, p.ContactInfo.Email)
	delete(s.profiles, id)
	return nil
}

func (s *MemoryProfileService) AddConnection(ctx context.Context, id, peerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		return ErrProfileNotFound
	}

	for _, c := range p.Connections {
		if c == peerID {
			return nil
		}
	}
	s.writes++
	p.Connections = append(p.Connections, peerID)
	return nil
}

func (s *MemoryProfileService) SetConnections(ctx context.Context, id string, connections []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		return ErrProfileNotFound
	}

	s.writes++
	p.Connections = dedupStrings(connections)
	return nil
}

func cloneProfile(p *models.Profile) *models.Profile {
	cp := *p
	cp.Experience = append([]models.Experience(nil), p.Experience...)
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Connections = append([]string(nil), p.Connections...)
	cp.Posts = append([]string(nil), p.Posts...)
	if p.Location != nil {
		loc := *p.Location
		cp.Location = &loc
	}
	return &cp
}
