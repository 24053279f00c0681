package http

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"zimtrader/internal/delivery/http/dto"
	"zimtrader/internal/domain"
	"zimtrader/internal/middleware"
	"zimtrader/internal/service"
)

// TradeHandler handles trade submission, closing and listing
type TradeHandler struct {
	tradeService *service.TradeService
	auditService *service.AuditService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradeService *service.TradeService, auditService *service.AuditService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		auditService: auditService,
	}
}

// SubmitTrade handles stock, forex and crypto trade submission
// POST /api/trades
func (h *TradeHandler) SubmitTrade(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	trade, err := h.tradeService.SubmitTrade(c.Request().Context(), userID, service.TradeInput{
		Symbol:         req.Symbol,
		Side:           req.Side,
		Quantity:       req.Quantity,
		InstrumentType: req.InstrumentType,
	})
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, userID,
		domain.AuditActionTradeSubmitted, "trade", trade.ID.String(),
		map[string]any{
			"symbol":          trade.Symbol,
			"instrument_type": trade.InstrumentType,
			"side":            trade.Side,
			"quantity":        trade.Quantity,
		}))

	return CreatedResponse(c, trade)
}

// SubmitOptionTrade handles option trade submission
// POST /api/trades/options
func (h *TradeHandler) SubmitOptionTrade(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	var req dto.OptionTradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	trade, err := h.tradeService.SubmitOptionTrade(c.Request().Context(), userID, service.OptionTradeInput{
		UnderlyingAsset: req.UnderlyingAsset,
		OptionType:      req.OptionType,
		StrikePrice:     req.StrikePrice,
		ExpiryDate:      req.ExpiryDate,
		Quantity:        req.Quantity,
		Premium:         req.Premium,
		Side:            req.Side,
	})
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, userID,
		domain.AuditActionTradeSubmitted, "trade", trade.ID.String(),
		map[string]any{
			"symbol":          trade.Symbol,
			"instrument_type": trade.InstrumentType,
			"side":            trade.Side,
		}))

	return CreatedResponse(c, trade)
}

// CloseTrade closes an open trade owned by the caller
// POST /api/trades/:id/close
func (h *TradeHandler) CloseTrade(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid trade ID")
	}

	var req dto.CloseTradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	trade, err := h.tradeService.CloseTrade(c.Request().Context(), userID, tradeID, req.ExitPrice)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	h.auditService.Record(c.Request().Context(), auditEntry(c, userID,
		domain.AuditActionTradeClosed, "trade", trade.ID.String(),
		map[string]any{
			"symbol":     trade.Symbol,
			"exit_price": trade.ExitPrice,
			"pnl":        trade.PnL,
		}))

	return SuccessResponse(c, trade)
}

// ListTrades returns the caller's recent trades, newest first
// GET /api/trades
func (h *TradeHandler) ListTrades(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not found in context")
	}

	limit := queryLimit(c, 50)
	trades, err := h.tradeService.ListTrades(c.Request().Context(), userID, limit)
	if err != nil {
		return ServiceErrorResponse(c, err)
	}

	return SuccessResponse(c, trades)
}

// queryLimit parses the limit query parameter, falling back to def and
// capping at 200
func queryLimit(c echo.Context, def int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > 200 {
		return 200
	}
	return n
}
