package service

import (
	"context"
	"errors"
	"fmt"
	"matchos/internal/event"
	"matchos/internal/models"
	"matchos/internal/privacy"
	"matchos/internal/repository"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	FindProviders(ctx context.Context, skill string, page, limit int) ([]*models.User, int64, error)
	UpdatePrivacyLevel(ctx context.Context, id string, level privacy.Level) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error)
	UpdateReputation(ctx context.Context, id string, score float64) error
	AdjustCredits(ctx context.Context, id string, delta int64) (int64, error)
}

type UserCache interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
	Invalidate(ctx context.Context, id string) error
}

type TokenIssuer interface {
	IssueToken(user *models.User) (string, error)
}

type UserService struct {
	store     UserStore
	cache     UserCache
	tokens    TokenIssuer
	publisher event.Publisher
	logger    *zap.Logger
}

func NewUserService(store UserStore, cache UserCache, tokens TokenIssuer, publisher event.Publisher, logger *zap.Logger) *UserService {
	return &UserService{
		store:     store,
		cache:     cache,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	role := privacy.ParseRole(string(req.Role))
	switch role {
	case privacy.RoleUser, privacy.RoleProvider:
	case privacy.RoleAnonymous:
		role = privacy.RoleUser
	default:
		return nil, fmt.Errorf("%w: role %s cannot be self-assigned", ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		PrivacyLevel:    privacy.DefaultLevel,
		ReputationScore: models.DefaultReputation,
		Timezone:        models.DefaultTimezone,
		Languages:       []string{},
		Skills:          []string{},
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(&models.UserEvent{
		EventType: models.EventTypeUserRegistered,
		UserID:    user.ID,
		NewValues: map[string]any{"role": user.Role, "privacy_level": user.PrivacyLevel},
	})

	return s.authResponse(user)
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *UserService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{AccessToken: token, User: user}, nil
}

// GetUser reads through the cache. Cache failures only cost a database read.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}

	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.logger.Warn("user cache write failed", zap.String("user_id", id), zap.Error(err))
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]*models.User, error) {
	users, err := s.store.FindAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) SearchProviders(ctx context.Context, query models.ProviderSearchQuery) (*models.ProviderSearchResult, error) {
	query.Skill = strings.TrimSpace(query.Skill)
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	providers, total, err := s.store.FindProviders(ctx, query.Skill, query.Page, query.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	return &models.ProviderSearchResult{
		Query:      query,
		Providers:  providers,
		TotalCount: total,
		PageCount:  int((total + int64(query.PageSize) - 1) / int64(query.PageSize)),
	}, nil
}

func (s *UserService) UpdatePrivacyLevel(ctx context.Context, id, level string) (*models.User, error) {
	newLevel, ok := privacy.ParseLevel(level)
	if !ok {
		return nil, ErrInvalidPrivacyLevel
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	user, err := s.store.UpdatePrivacyLevel(ctx, id, newLevel)
	if err != nil {
		return nil, storeError(err)
	}
	s.invalidate(ctx, id)

	if current.PrivacyLevel != newLevel {
		s.publish(&models.UserEvent{
			EventType: models.EventTypePrivacyChanged,
			UserID:    id,
			OldValues: map[string]any{"privacy_level": current.PrivacyLevel},
			NewValues: map[string]any{"privacy_level": newLevel},
		})
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, *req.Timezone)
		}
	}
	if req.Location != nil && !validPoint(req.Location) {
		return nil, fmt.Errorf("%w: precise_location must be a GeoJSON point", ErrInvalidInput)
	}

	user, err := s.store.UpdateProfile(ctx, id, req)
	if err != nil {
		return nil, storeError(err)
	}
	s.invalidate(ctx, id)
	return user, nil
}

// ApplyReputation stores a score computed by the reputation subsystem.
func (s *UserService) ApplyReputation(ctx context.Context, userID string, score float64) error {
	if err := s.store.UpdateReputation(ctx, userID, score); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		return fmt.Errorf("failed to update reputation: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("user cache invalidation failed", zap.String("user_id", id), zap.Error(err))
	}
}

func (s *UserService) publish(e *models.UserEvent) {
	if err := s.publisher.PublishUserEvent(e); err != nil {
		s.logger.Error("failed to publish user event",
			zap.String("event_type", string(e.EventType)),
			zap.String("user_id", e.UserID),
			zap.Error(err))
	}
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("user store: %w", err)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return email, nil
}

func validPoint(p *models.GeoPoint) bool {
	if p.Type != "Point" || len(p.Coordinates) != 2 {
		return false
	}
	lon, lat := p.Coordinates[0], p.Coordinates[1]
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
