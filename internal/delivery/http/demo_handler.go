package http

import (
	"github.com/labstack/echo/v4"

	"zimtrader/internal/delivery/http/dto"
	"zimtrader/internal/simulator"
)

// DemoHandler controls the demo trading simulation and exposes its state
type DemoHandler struct {
	engine *simulator.Engine
}

// NewDemoHandler creates a new DemoHandler
func NewDemoHandler(engine *simulator.Engine) *DemoHandler {
	return &DemoHandler{engine: engine}
}

// GetState returns the current simulation snapshot
// GET /api/demo/state
func (h *DemoHandler) GetState(c echo.Context) error {
	return SuccessResponse(c, h.engine.Snapshot())
}

// SetActive activates or deactivates the simulation. Deactivation resets
// all simulated state.
// POST /api/demo/activate
func (h *DemoHandler) SetActive(c echo.Context) error {
	var req dto.DemoRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.engine.Activate(req.Enabled); err != nil {
		return InternalServerErrorResponse(c, "Failed to switch simulation state", err)
	}

	return SuccessResponse(c, h.engine.Snapshot())
}
