package handlers

import (
	"context"
	"matchos/internal/middleware"
	"matchos/internal/models"
	"matchos/internal/privacy"
	"matchos/internal/service"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, error)
	SearchProviders(ctx context.Context, query models.ProviderSearchQuery) (*models.ProviderSearchResult, error)
	UpdatePrivacyLevel(ctx context.Context, id, level string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error)
}

type ReputationMinter interface {
	Mint(ctx context.Context, userID, walletAddress string) (*service.MintResult, error)
}

type UserHandler struct {
	users      UserService
	reputation ReputationMinter
	apiKey     string
	logger     *zap.Logger
}

func NewUserHandler(users UserService, reputation ReputationMinter, apiKey string, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:      users,
		reputation: reputation,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// RegisterRoutes expects Authenticate and PrivacyFilter to be installed on
// the router already.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	users := router.Group("/users", middleware.RequireAuth())
	users.Get("/me", h.GetMe)
	users.Put("/me", h.UpdateMe)
	users.Put("/me/privacy", h.UpdatePrivacy)
	users.Post("/mint-reputation", h.MintReputation)
	users.Get("/:id", h.GetUser)
	users.Get("/", h.ListUsers, middleware.RequireRole(middleware.AdminRole))

	router.Get("/providers/search", h.SearchProviders)

	internal := router.Group("/internal", middleware.APIKeyRequired(h.apiKey))
	internal.Get("/users/:id", h.GetUserInternal)
}

func (h *UserHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := h.users.Register(ctx, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to register user")
	}

	h.logger.Info("user registered", zap.String("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	middleware.SetViewer(c, privacy.Viewer{Role: resp.User.Role, ID: resp.User.ID})
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *UserHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := h.users.Login(ctx, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to log in")
	}

	middleware.SetViewer(c, privacy.Viewer{Role: resp.User.Role, ID: resp.User.ID})
	return c.JSON(resp)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := h.users.GetUser(ctx, middleware.ViewerFrom(c).ID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to retrieve user")
	}
	return c.JSON(user)
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := h.users.UpdateProfile(ctx, middleware.ViewerFrom(c).ID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update profile")
	}
	return c.JSON(user)
}

func (h *UserHandler) UpdatePrivacy(c fiber.Ctx) error {
	var req models.UpdatePrivacyRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	viewer := middleware.ViewerFrom(c)
	user, err := h.users.UpdatePrivacyLevel(ctx, viewer.ID, req.PrivacyLevel)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update privacy level")
	}

	h.logger.Info("privacy level changed", zap.String("user_id", viewer.ID), zap.String("privacy_level", string(user.PrivacyLevel)))
	return c.JSON(user)
}

// GetUser returns any user; the privacy filter decides what the caller sees.
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := h.users.GetUser(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to retrieve user")
	}
	return c.JSON(user)
}

func (h *UserHandler) GetUserInternal(c fiber.Ctx) error {
	middleware.SkipPrivacyFilter(c)
	return h.GetUser(c)
}

func (h *UserHandler) ListUsers(c fiber.Ctx) error {
	page, limit := pagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	users, err := h.users.ListUsers(ctx, page, limit)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list users")
	}
	return c.JSON(fiber.Map{
		"users": users,
		"page":  page,
		"limit": limit,
	})
}

func (h *UserHandler) SearchProviders(c fiber.Ctx) error {
	page, limit := pagination(c)
	query := models.ProviderSearchQuery{
		Skill:    c.Query("skill"),
		Page:     page,
		PageSize: limit,
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := h.users.SearchProviders(ctx, query)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to search providers")
	}

	return c.JSON(fiber.Map{
		"query":     result.Query,
		"providers": result.Providers,
		"pagination": fiber.Map{
			"totalCount":  result.TotalCount,
			"pageCount":   result.PageCount,
			"currentPage": result.Query.Page,
			"pageSize":    result.Query.PageSize,
		},
	})
}

func (h *UserHandler) MintReputation(c fiber.Ctx) error {
	var req models.MintReputationRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := h.reputation.Mint(ctx, middleware.ViewerFrom(c).ID, req.WalletAddress)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to mint reputation")
	}
	return c.JSON(result)
}

func pagination(c fiber.Ctx) (int, int) {
	page, limit := 1, 20
	if p, err := strconv.Atoi(c.Query("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit", c.Query("pageSize", "20"))); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}
