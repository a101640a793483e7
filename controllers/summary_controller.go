package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"finboard/backend/config"
	"finboard/backend/finance"
	"finboard/backend/middlewares"
	"finboard/backend/models"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

// clock is swapped in tests.
var clock = func() time.Time { return time.Now().UTC() }

// loadSnapshot gathers the caller's records plus the month, cash and
// taxRate overrides from the query string.
func loadSnapshot(ctx context.Context, c *gin.Context, s store.Store, cfg config.Config) (finance.Snapshot, error) {
	m, err := monthParam(c)
	if err != nil {
		return finance.Snapshot{}, err
	}
	snap := finance.Snapshot{Month: m, TaxRate: cfg.DefaultTaxRate}
	if v := c.Query("taxRate"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 || r > 1 {
			return snap, invalidQuery("taxRate", "must be a number between 0 and 1")
		}
		snap.TaxRate = r
	}
	if v := c.Query("cash"); v != "" {
		cash, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return snap, invalidQuery("cash", "must be a number")
		}
		snap.Cash = &cash
	}

	uid := middlewares.UserID(c)
	if snap.Transactions, err = s.ListTransactions(ctx, uid, models.TransactionFilter{}); err != nil {
		return snap, err
	}
	if snap.Budgets, err = s.ListBudgets(ctx, uid); err != nil {
		return snap, err
	}
	if snap.Goals, err = s.ListSavingGoals(ctx, uid); err != nil {
		return snap, err
	}
	return snap, nil
}

// Summary is the overview dashboard: profit, runway, category breakdown,
// budget usage, goal timelines, alerts and insights for one month.
func Summary(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		snap, err := loadSnapshot(ctx, c, s, cfg)
		if err != nil {
			respondError(c, err, "Failed to build summary")
			return
		}
		c.JSON(http.StatusOK, finance.BuildDashboard(snap, cfg.GoalPolicy(), clock()))
	}
}
