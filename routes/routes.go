package routes

import (
	"finboard/backend/config"
	"finboard/backend/controllers"
	"finboard/backend/middlewares"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func Register(r *gin.Engine, cfg config.Config, s store.Store) {
	// Unknown JSON keys are a 400.
	binding.EnableDecoderDisallowUnknownFields = true

	api := r.Group("/api")
	{
		api.GET("/health", controllers.Health(s, cfg))

		priv := api.Group("/")
		priv.Use(middlewares.Auth(cfg.JWTSecret, cfg.JWTIssuer))

		priv.GET("transactions", controllers.ListTransactions(s, cfg))
		priv.POST("transactions", controllers.CreateTransaction(s, cfg))
		priv.GET("transactions/categories", controllers.TransactionCategories(s, cfg))
		priv.POST("transactions/import", controllers.ImportTransactions(s, cfg))
		priv.GET("transactions/:id", controllers.GetTransaction(s, cfg))
		priv.PATCH("transactions/:id", controllers.UpdateTransaction(s, cfg))
		priv.DELETE("transactions/:id", controllers.DeleteTransaction(s, cfg))

		priv.GET("budgets", controllers.ListBudgets(s, cfg))
		priv.POST("budgets", controllers.SaveBudgets(s, cfg))
		priv.GET("budgets/usage", controllers.BudgetUsage(s, cfg))
		priv.GET("budgets/:id", controllers.GetBudget(s, cfg))
		priv.PATCH("budgets/:id", controllers.UpdateBudget(s, cfg))
		priv.DELETE("budgets/:id", controllers.DeleteBudget(s, cfg))

		priv.GET("saving-goals", controllers.ListSavingGoals(s, cfg))
		priv.POST("saving-goals", controllers.CreateSavingGoal(s, cfg))
		priv.GET("saving-goals/:id", controllers.GetSavingGoal(s, cfg))
		priv.PATCH("saving-goals/:id", controllers.UpdateSavingGoal(s, cfg))
		priv.DELETE("saving-goals/:id", controllers.DeleteSavingGoal(s, cfg))
		priv.GET("saving-goals/:id/projection", controllers.SavingGoalProjection(s, cfg))

		priv.POST("user/sync", controllers.SyncUser(s, cfg))
		priv.GET("user/sync", controllers.Me(s, cfg))
		priv.POST("user/onboarding", controllers.CompleteOnboarding(s, cfg))

		priv.GET("summary", controllers.Summary(s, cfg))
		priv.POST("advice", controllers.Advice(s, cfg))

		// Stateless calculators
		proj := priv.Group("projections")
		proj.POST("/runway", controllers.ProjectRunway(cfg))
		proj.POST("/profit", controllers.ProjectProfit(cfg))
		proj.POST("/budget-impact", controllers.ProjectBudgetImpact(cfg))
		proj.POST("/goal-timeline", controllers.ProjectGoalTimeline(cfg))
		proj.POST("/scenario", controllers.ProjectScenario(cfg))
		proj.POST("/tax-reserve", controllers.ProjectTaxReserve(cfg))
		proj.POST("/revenue-growth", controllers.ProjectRevenueGrowth(cfg))
		proj.POST("/revenue-drop", controllers.ProjectRevenueDrop(cfg))
	}
}
