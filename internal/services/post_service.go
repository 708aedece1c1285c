package services

import (
	"context"
	"errors"
	"sync"

	"github.com/nexosphere/backend/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

// PostService is the posts collection boundary. Delete takes the caller's
// profile id so "absent" and "not the owner" collapse into a single
// not-found result, matching the store-level filter it maps to.
type PostService interface {
	Create(ctx context.Context, p *models.Post) error
	CreateMany(ctx context.Context, posts []*models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error)
	SetAuthor(ctx context.Context, postIDs []string, authorID string) error
	Delete(ctx context.Context, id, authorID string) error
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}

// MemoryPostService is an in-memory PostService used by tests and local
// development.
type MemoryPostService struct {
	mu     sync.RWMutex
	posts  map[string]*models.Post // postID -> post
	writes int
}

func NewMemoryPostService() *MemoryPostService {
	return &MemoryPostService{
		posts: make(map[string]*models.Post),
	}
}

// WriteCount returns the number of mutating calls performed so far.
func (s *MemoryPostService) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *MemoryPostService) Create(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	s.posts[p.ID] = clonePost(p)
	return nil
}

func (s *MemoryPostService) CreateMany(ctx context.Context, posts []*models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	for _, p := range posts {
		s.posts[p.ID] = clonePost(p)
	}
	return nil
}

func (s *MemoryPostService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}
	return clonePost(p), nil
}

func (s *MemoryPostService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Post, 0)
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (s *MemoryPostService) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}

	s.writes++
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Likes != nil {
		p.Likes = *req.Likes
	}
	return clonePost(p), nil
}

func (s *MemoryPostService) SetAuthor(ctx context.Context, postIDs []string, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	for _, id := range postIDs {
		if p, exists := s.posts[id]; exists {
			p.AuthorID = authorID
		}
	}
	return nil
}

func (s *MemoryPostService) Delete(ctx context.Context, id, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists || p.AuthorID != authorID {
		return ErrPostNotFound
	}

	s.writes++
	delete(s.posts, id)
	return nil
}

func (s *MemoryPostService) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, p := range s.posts {
		if p.AuthorID == authorID {
			delete(s.posts, id)
			deleted++
		}
	}
	if deleted > 0 {
		s.writes++
	}
	return deleted, nil
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Comments = append([]models.Comment(nil), p.Comments...)
	return &cp
}
