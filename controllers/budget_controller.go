package controllers

import (
	"net/http"
	"time"

	"finboard/backend/config"
	"finboard/backend/finance"
	"finboard/backend/middlewares"
	"finboard/backend/models"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

func ListBudgets(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		budgets, err := s.ListBudgets(ctx, middlewares.UserID(c))
		if err != nil {
			respondError(c, err, "Failed to fetch budgets")
			return
		}
		c.JSON(http.StatusOK, gin.H{"budgets": budgets})
	}
}

// SaveBudgets replaces the limits of every category in the request and
// leaves other categories untouched.
func SaveBudgets(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BulkBudgetRequest
		if err := bindJSON(c, &req, "Invalid budget data"); err != nil {
			respondError(c, err, "Failed to save budgets")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		budgets, err := s.UpsertBudgets(ctx, middlewares.UserID(c), req)
		if err != nil {
			respondError(c, err, "Failed to save budgets")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Budgets saved successfully", "budgets": budgets})
	}
}

func GetBudget(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		b, err := s.GetBudget(ctx, middlewares.UserID(c), c.Param("id"))
		if err != nil {
			respondLookupError(c, err, "Budget not found", "Failed to fetch budget")
			return
		}
		c.JSON(http.StatusOK, gin.H{"budget": b})
	}
}

func UpdateBudget(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.BudgetPatch
		if err := bindJSON(c, &p, "Invalid budget data"); err != nil {
			respondError(c, err, "Failed to update budget")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		b, err := s.UpdateBudget(ctx, middlewares.UserID(c), c.Param("id"), p)
		if err != nil {
			respondLookupError(c, err, "Budget not found", "Failed to update budget")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Budget updated successfully", "budget": b})
	}
}

func DeleteBudget(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		if err := s.DeleteBudget(ctx, middlewares.UserID(c), c.Param("id")); err != nil {
			respondLookupError(c, err, "Budget not found", "Failed to delete budget")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
	}
}

// BudgetUsage compares each budget with the month's expenses in its
// category. month is YYYY-MM and defaults to the current month.
func BudgetUsage(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := monthParam(c)
		if err != nil {
			respondError(c, err, "Failed to fetch budgets")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		uid := middlewares.UserID(c)
		budgets, err := s.ListBudgets(ctx, uid)
		if err != nil {
			respondError(c, err, "Failed to fetch budgets")
			return
		}
		start := finance.MonthStart(m)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		txs, err := s.ListTransactions(ctx, uid, models.TransactionFilter{
			Type:      models.Expense,
			StartDate: &start,
			EndDate:   &end,
		})
		if err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"month": start.Format("2006-01"),
			"usage": finance.SpendVsLimit(budgets, txs, m),
		})
	}
}

// monthParam reads ?month=YYYY-MM, falling back to the current month.
func monthParam(c *gin.Context) (time.Time, error) {
	v := c.Query("month")
	if v == "" {
		return clock(), nil
	}
	m, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, invalidQuery("month", "must be YYYY-MM")
	}
	return m, nil
}
