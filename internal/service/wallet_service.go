package service

import (
	"context"
	"errors"
	"fmt"
	"matchos/internal/event"
	"matchos/internal/models"
	"matchos/internal/repository"

	"go.uber.org/zap"
)

var creditBundles = []models.CreditBundle{
	{ID: "starter", Name: "Starter", Credits: 5, PriceDZD: 500},
	{ID: "standard", Name: "Standard", Credits: 10, PriceDZD: 1000, Popular: true},
	{ID: "premium", Name: "Premium", Credits: 25, PriceDZD: 2000},
	{ID: "business", Name: "Business", Credits: 100, PriceDZD: 7000},
}

type WalletService struct {
	store     UserStore
	cache     UserCache
	publisher event.Publisher
	logger    *zap.Logger
}

func NewWalletService(store UserStore, cache UserCache, publisher event.Publisher, logger *zap.Logger) *WalletService {
	return &WalletService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *WalletService) Bundles() []models.CreditBundle {
	return append([]models.CreditBundle(nil), creditBundles...)
}

func findBundle(id string) (models.CreditBundle, bool) {
	for _, b := range creditBundles {
		if b.ID == id {
			return b, true
		}
	}
	return models.CreditBundle{}, false
}

func (s *WalletService) Balance(ctx context.Context, userID string) (*models.Balance, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return &models.Balance{
		Credits:      user.Credits,
		Transactions: []models.Transaction{},
	}, nil
}

// Purchase credits a bundle to the user. Payment is not verified here.
func (s *WalletService) Purchase(ctx context.Context, userID string, req *models.PurchaseRequest) (*models.WalletResult, error) {
	bundle, ok := findBundle(req.BundleID)
	if !ok {
		return nil, ErrUnknownBundle
	}

	balance, err := s.adjust(ctx, userID, bundle.Credits, "purchase:"+bundle.ID)
	if err != nil {
		return nil, err
	}

	return &models.WalletResult{
		Success:    true,
		NewBalance: balance,
		Message:    fmt.Sprintf("Successfully purchased %d credits", bundle.Credits),
	}, nil
}

func (s *WalletService) Deduct(ctx context.Context, userID string, req *models.DeductRequest) (*models.WalletResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	balance, err := s.adjust(ctx, userID, -req.Amount, req.Reason)
	if err != nil {
		return nil, err
	}

	return &models.WalletResult{
		Success:    true,
		NewBalance: balance,
	}, nil
}

func (s *WalletService) adjust(ctx context.Context, userID string, delta int64, reason string) (int64, error) {
	balance, err := s.store.AdjustCredits(ctx, userID, delta)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return 0, ErrInsufficientCredits
		}
		return 0, storeError(err)
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("user cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}

	e := &models.UserEvent{
		EventType: models.EventTypeCreditsChanged,
		UserID:    userID,
		OldValues: map[string]any{"credits": balance - delta},
		NewValues: map[string]any{"credits": balance, "delta": delta, "reason": reason},
	}
	if err := s.publisher.PublishUserEvent(e); err != nil {
		s.logger.Error("failed to publish credits event", zap.String("user_id", userID), zap.Error(err))
	}
	return balance, nil
}
