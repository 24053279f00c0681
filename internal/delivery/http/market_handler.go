package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"zimtrader/internal/gateway"
)

// MarketHandler proxies brokerage API actions through the gateway client.
// Success responses pass the upstream JSON through verbatim; upstream
// failures relay the upstream status with an error/details pair.
type MarketHandler struct {
	client *gateway.Client
	logger *zap.Logger
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(client *gateway.Client, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		client: client,
		logger: logger,
	}
}

// Proxy executes one brokerage action
// POST /api/market-data
func (h *MarketHandler) Proxy(c echo.Context) error {
	var req gateway.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	body, err := h.client.Do(c.Request().Context(), req)
	if err != nil {
		var upstream *gateway.UpstreamError
		switch {
		case errors.Is(err, gateway.ErrInvalidAction):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid action"})
		case errors.As(err, &upstream):
			return c.JSON(upstream.StatusCode, map[string]string{
				"error":   "Brokerage API error",
				"details": upstream.Details,
			})
		}
		h.logger.Error("market data proxy failed",
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSONBlob(http.StatusOK, normalizeJSON(body))
}

// normalizeJSON guards against an empty upstream body so the client always
// receives valid JSON
func normalizeJSON(body []byte) []byte {
	if len(body) == 0 || !json.Valid(body) {
		return []byte("{}")
	}
	return body
}
