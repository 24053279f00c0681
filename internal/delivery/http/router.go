package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"zimtrader/internal/domain"
	custommiddleware "zimtrader/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	JWTSecret         string
	RoleResolver      custommiddleware.RoleResolver
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	TradeHandler      *TradeHandler
	WalletHandler     *WalletHandler
	DemoHandler       *DemoHandler
	MarketHandler     *MarketHandler
	AdminHandler      *AdminHandler
	ComplianceHandler *ComplianceHandler
	AuditHandler      *AuditHandler
	ModelHandler      *ModelHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// The demo dashboard polls this; keep it out of the access log
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/demo/state"
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "zimtrader-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	authed := custommiddleware.AuthMiddleware(config.JWTSecret)
	requireRoles := func(roles ...domain.Role) echo.MiddlewareFunc {
		return custommiddleware.RequireAnyRole(config.RoleResolver, roles...)
	}

	// User routes (any authenticated user)
	user := api.Group("/user", authed)
	{
		user.GET("/me", config.UserHandler.GetMe)
		user.GET("/roles", config.UserHandler.GetRoles)
	}

	// Trading
	trades := api.Group("/trades", authed)
	{
		trades.GET("", config.TradeHandler.ListTrades)
		trades.POST("", config.TradeHandler.SubmitTrade)
		trades.POST("/options", config.TradeHandler.SubmitOptionTrade)
		trades.POST("/:id/close", config.TradeHandler.CloseTrade)
	}

	// Wallet
	wallet := api.Group("/wallet", authed)
	{
		wallet.GET("", config.WalletHandler.GetWallet)
		wallet.POST("/deposit", config.WalletHandler.Deposit)
		wallet.POST("/withdraw", config.WalletHandler.Withdraw)
	}

	// Demo trading simulation
	demo := api.Group("/demo", authed)
	{
		demo.GET("/state", config.DemoHandler.GetState)
		demo.POST("/activate", config.DemoHandler.SetActive)
	}

	// Brokerage proxy
	api.POST("/market-data", config.MarketHandler.Proxy, authed)

	// KYC submission (own record)
	api.POST("/kyc", config.ComplianceHandler.SubmitKYC, authed)

	// Admin routes
	admin := api.Group("/admin", authed, requireRoles(domain.RoleAdmin))
	{
		admin.GET("/users", config.AdminHandler.ListUsers)
		admin.POST("/users/:id/roles", config.AdminHandler.AssignRole)
		admin.DELETE("/users/:id/roles", config.AdminHandler.RevokeRole)
	}

	// Compliance routes
	compliance := api.Group("/compliance", authed, requireRoles(domain.RoleCompliance, domain.RoleAdmin))
	{
		compliance.GET("/kyc", config.ComplianceHandler.ListPendingKYC)
		compliance.POST("/kyc/:id/review", config.ComplianceHandler.ReviewKYC)
		compliance.GET("/alerts", config.ComplianceHandler.ListAlerts)
		compliance.POST("/alerts/:id/resolve", config.ComplianceHandler.ResolveAlert)
	}

	// Audit trail
	audit := api.Group("/audit", authed, requireRoles(domain.RoleAuditor, domain.RoleAdmin, domain.RoleCompliance))
	{
		audit.GET("", config.AuditHandler.ListEntries)
	}

	// Model registry
	models := api.Group("/models", authed, requireRoles(domain.RoleOperator, domain.RoleAdmin))
	{
		models.GET("", config.ModelHandler.ListModels)
		models.POST("", config.ModelHandler.RegisterModel)
		models.POST("/:id/approve", config.ModelHandler.ApproveModel)
	}
}
