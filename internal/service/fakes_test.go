package service

import (
	"context"
	"errors"
	"matchos/internal/event"
	"matchos/internal/models"
	"matchos/internal/privacy"
	"matchos/internal/repository"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type memoryStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newMemoryStore(users ...*models.User) *memoryStore {
	s := &memoryStore{users: map[string]*models.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memoryStore) copyOf(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *memoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.copyOf(id)
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Email == email {
			return s.copyOf(id)
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memoryStore) FindAll(_ context.Context, _, _ int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.User{}
	for id := range s.users {
		u, _ := s.copyOf(id)
		out = append(out, u)
	}
	return out, nil
}

func (s *memoryStore) FindProviders(_ context.Context, skill string, _, limit int) ([]*models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.User{}
	for id, u := range s.users {
		if u.Role != privacy.RoleProvider {
			continue
		}
		if skill != "" && !contains(u.Skills, skill) {
			continue
		}
		c, _ := s.copyOf(id)
		out = append(out, c)
	}
	total := int64(len(out))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (s *memoryStore) UpdatePrivacyLevel(_ context.Context, id string, level privacy.Level) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.PrivacyLevel = level
	return s.copyOf(id)
}

func (s *memoryStore) UpdateProfile(_ context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Skills != nil {
		u.Skills = req.Skills
	}
	if req.Timezone != nil {
		u.Timezone = *req.Timezone
	}
	if req.LocationZoneID != nil {
		u.LocationZoneID = req.LocationZoneID
	}
	if req.WalletAddress != nil {
		u.WalletAddress = req.WalletAddress
	}
	return s.copyOf(id)
}

func (s *memoryStore) UpdateReputation(_ context.Context, id string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ReputationScore = score
	return nil
}

func (s *memoryStore) AdjustCredits(_ context.Context, id string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if u.Credits+delta < 0 {
		return 0, repository.ErrInsufficientCredits
	}
	u.Credits += delta
	return u.Credits, nil
}

type memoryCache struct {
	mu          sync.Mutex
	users       map[string]models.User
	invalidated []string
	err         error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{users: map[string]models.User{}}
}

func (c *memoryCache) Get(_ context.Context, id string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	u, ok := c.users[id]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &u, nil
}

func (c *memoryCache) Set(_ context.Context, user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	cached := *user
	cached.PasswordHash = ""
	c.users[user.ID] = cached
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
	c.invalidated = append(c.invalidated, id)
	return c.err
}

type fakeTokens struct{}

func (fakeTokens) IssueToken(user *models.User) (string, error) {
	if user.ID == "" {
		return "", errors.New("no id")
	}
	return "token-" + user.ID, nil
}

type fixture struct {
	store     *memoryStore
	cache     *memoryCache
	publisher *event.MockPublisher
	users     *UserService
	wallet    *WalletService
}

func newFixture(t *testing.T, users ...*models.User) *fixture {
	t.Helper()
	f := &fixture{
		store:     newMemoryStore(users...),
		cache:     newMemoryCache(),
		publisher: event.NewMockPublisher(),
	}
	f.users = NewUserService(f.store, f.cache, fakeTokens{}, f.publisher, zap.NewNop())
	f.wallet = NewWalletService(f.store, f.cache, f.publisher, zap.NewNop())
	return f
}

func provider(id string, skills ...string) *models.User {
	return &models.User{
		ID:              id,
		Email:           id + "@example.com",
		Role:            privacy.RoleProvider,
		PrivacyLevel:    privacy.LevelAlias,
		ReputationScore: models.DefaultReputation,
		Skills:          skills,
	}
}
