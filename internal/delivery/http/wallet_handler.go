package http

import (
	"github.com/labstack/echo/v4"

	"zimtrader/internal/delivery/http/dto"
	"zimtrader/internal/domain"
	"zimtrader/internal/middleware"
	"zimtrader/internal/service"
)

// WalletHandler handles wallet balances, deposits and withdrawals
type WalletHandler struct {
	walletService *service.WalletService
	auditService  *service.AuditService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *service.WalletService, auditService *service.AuditService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		auditService:  auditService,
	}
}

// GetWallet returns the caller's balances and recent transactions
// GET /api/wallet
func (h *WalletHandler) GetWallet(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	profile, err := h.walletService.Balances(c.Request().Context(), userID)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	transactions, err := h.walletService.Transactions(c.Request().Context(), userID, queryLimit(c, 50))
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"profile":      profile,
		"transactions": transactions,
	})
}

// Deposit credits the caller's wallet
// POST /api/wallet/deposit
func (h *WalletHandler) Deposit(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	var req dto.WalletRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	tx, err := h.walletService.Deposit(c.Request().Context(), userID, req.Amount, req.Currency, req.PaymentMethod)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, userID,
		domain.AuditActionDeposit, "transaction", tx.ID.String(),
		map[string]any{"amount": tx.Amount, "currency": tx.Currency}))

	return CreatedResponse(c, tx)
}

// Withdraw debits the caller's wallet
// POST /api/wallet/withdraw
func (h *WalletHandler) Withdraw(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	var req dto.WalletRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	tx, err := h.walletService.Withdraw(c.Request().Context(), userID, req.Amount, req.Currency, req.PaymentMethod, req.Reference)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, userID,
		domain.AuditActionWithdrawal, "transaction", tx.ID.String(),
		map[string]any{"amount": tx.Amount, "currency": tx.Currency}))

	return CreatedResponse(c, tx)
}
