package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, accountHandler *AccountHandler, transactionHandler *TransactionHandler, fundHandler *FundHandler, scenarioHandler *ScenarioHandler, projectionHandler *ProjectionHandler, allocationHandler *AllocationHandler, analyticsHandler *AnalyticsHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)

	// Fund routes
	funds := api.Group("/funds")
	funds.POST("", fundHandler.CreateFund)
	funds.GET("", fundHandler.GetFunds)
	funds.PUT("/:id", fundHandler.UpdateFund)
	funds.DELETE("/:id", fundHandler.DeleteFund)

	// Scenario routes
	scenarios := api.Group("/scenarios")
	scenarios.POST("", scenarioHandler.CreateScenario)
	scenarios.GET("", scenarioHandler.GetScenarios)
	scenarios.PUT("/:id", scenarioHandler.UpdateScenario)
	scenarios.POST("/:id/activate", scenarioHandler.ActivateScenario)
	scenarios.DELETE("/:id", scenarioHandler.DeleteScenario)

	// Projection routes
	projections := api.Group("/projections")
	projections.POST("/forecast", projectionHandler.Forecast)
	projections.POST("/yearly", projectionHandler.YearlyForecast)

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.GET("/income-allocation", allocationHandler.GetIncomeAllocation)
	analytics.GET("/fund-tracker", analyticsHandler.GetFundTracker)
	analytics.GET("/net-worth", analyticsHandler.GetNetWorth)
	analytics.POST("/fund-allocation-overrides", allocationHandler.UpsertOverride)
	analytics.DELETE("/fund-allocation-overrides/:fundId/:year/:month", allocationHandler.DeleteOverride)
}
