package handlers

import (
	"context"
	"matchos/internal/middleware"
	"matchos/internal/models"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type WalletService interface {
	Bundles() []models.CreditBundle
	Balance(ctx context.Context, userID string) (*models.Balance, error)
	Purchase(ctx context.Context, userID string, req *models.PurchaseRequest) (*models.WalletResult, error)
	Deduct(ctx context.Context, userID string, req *models.DeductRequest) (*models.WalletResult, error)
}

type WalletHandler struct {
	wallet WalletService
	logger *zap.Logger
}

func NewWalletHandler(wallet WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		wallet: wallet,
		logger: logger,
	}
}

func (h *WalletHandler) RegisterRoutes(router fiber.Router) {
	wallet := router.Group("/wallet")
	wallet.Get("/bundles", h.GetBundles)
	wallet.Get("/balance", h.GetBalance, middleware.RequireAuth())
	wallet.Post("/purchase", h.Purchase, middleware.RequireAuth())
	wallet.Post("/deduct", h.Deduct, middleware.RequireAuth())
}

func (h *WalletHandler) GetBundles(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"bundles": h.wallet.Bundles(),
	})
}

func (h *WalletHandler) GetBalance(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	balance, err := h.wallet.Balance(ctx, middleware.ViewerFrom(c).ID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get balance")
	}
	return c.JSON(balance)
}

func (h *WalletHandler) Purchase(c fiber.Ctx) error {
	var req models.PurchaseRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	userID := middleware.ViewerFrom(c).ID
	result, err := h.wallet.Purchase(ctx, userID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to purchase credits")
	}

	h.logger.Info("credits purchased",
		zap.String("user_id", userID),
		zap.String("bundle", req.BundleID),
		zap.String("payment_method", req.PaymentMethod))
	return c.JSON(result)
}

func (h *WalletHandler) Deduct(c fiber.Ctx) error {
	var req models.DeductRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := h.wallet.Deduct(ctx, middleware.ViewerFrom(c).ID, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to deduct credits")
	}
	return c.JSON(result)
}
