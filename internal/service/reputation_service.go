package service

import (
	"context"
	"encoding/json"
	"fmt"
	"matchos/internal/config"
	"matchos/internal/models"
	"matchos/pkg/utils"
	"math"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultMintCategory = "General"

type AddressResolver interface {
	GetServiceAddress(serviceName string, protocol string) (string, error)
}

type MintRequest struct {
	ToAddress string `json:"toAddress"`
	Score     int64  `json:"score"`
	Category  string `json:"category"`
}

type MintResult struct {
	Success bool           `json:"success"`
	Request MintRequest    `json:"request"`
	Adapter map[string]any `json:"adapter,omitempty"`
}

// ReputationService asks the blockchain adapter to mint a reputation token
// for a user. It does not track transaction state.
type ReputationService struct {
	users    *UserService
	resolver AddressResolver
	client   *fasthttp.Client
	cfg      config.BlockchainConfig
	apiKey   string
	logger   *zap.Logger
}

func NewReputationService(users *UserService, resolver AddressResolver, cfg config.BlockchainConfig, apiKey string, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		users:    users,
		resolver: resolver,
		client:   &fasthttp.Client{Name: "matchos-user-service"},
		cfg:      cfg,
		apiKey:   apiKey,
		logger:   logger,
	}
}

func mintRequestFor(user *models.User, walletAddress string) MintRequest {
	category := defaultMintCategory
	if len(user.Skills) > 0 && strings.TrimSpace(user.Skills[0]) != "" {
		category = user.Skills[0]
	}
	return MintRequest{
		ToAddress: walletAddress,
		Score:     int64(math.Floor(user.ReputationScore + 10*float64(len(user.Skills)))),
		Category:  category,
	}
}

func (s *ReputationService) adapterURL() string {
	if s.resolver != nil {
		addr, err := s.resolver.GetServiceAddress(s.cfg.ServiceName, "http")
		if err == nil {
			return "http://" + addr
		}
		s.logger.Warn("blockchain adapter lookup failed, using configured URL",
			zap.String("service", s.cfg.ServiceName), zap.Error(err))
	}
	return s.cfg.FallbackURL
}

func (s *ReputationService) Mint(ctx context.Context, userID, walletAddress string) (*MintResult, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if walletAddress == "" && user.WalletAddress != nil {
		walletAddress = *user.WalletAddress
	}
	if walletAddress == "" {
		return nil, fmt.Errorf("%w: wallet address is required", ErrInvalidInput)
	}

	req := mintRequestFor(user, walletAddress)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mint request: %w", err)
	}

	url := s.adapterURL() + "/reputation/mint"
	respBody, err := utils.PostJSON(s.client, url, s.apiKey, body, s.cfg.Timeout)
	if err != nil {
		s.logger.Error("reputation mint failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrMintUnavailable, err)
	}

	result := &MintResult{Success: true, Request: req}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result.Adapter); err != nil {
			s.logger.Warn("unexpected adapter response", zap.Error(err))
		}
	}

	s.logger.Info("reputation mint requested",
		zap.String("user_id", userID),
		zap.Int64("score", req.Score),
		zap.String("category", req.Category))
	return result, nil
}
