package controllers

import (
	"net/http"

	"finboard/backend/config"
	"finboard/backend/finance"
	"finboard/backend/models"

	"github.com/gin-gonic/gin"
)

// Stateless calculators. Nothing here touches the store.

type runwayRequest struct {
	Cash            float64 `json:"cash"`
	MonthlyExpenses float64 `json:"monthlyExpenses" binding:"gte=0"`
	MonthlyRevenue  float64 `json:"monthlyRevenue" binding:"gte=0"`
	TaxRate         float64 `json:"taxRate" binding:"gte=0,lte=1"`
}

func ProjectRunway(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runwayRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute runway")
			return
		}
		runway := finance.ComputeRunway(req.Cash, req.MonthlyExpenses, req.MonthlyRevenue, req.TaxRate)
		c.JSON(http.StatusOK, gin.H{
			"runway":      runway,
			"risk":        finance.ClassifyRisk(runway),
			"monthlyBurn": finance.RoundCurrency(finance.MonthlyBurn(req.MonthlyExpenses, req.MonthlyRevenue, req.TaxRate)),
		})
	}
}

type profitRequest struct {
	Income   float64 `json:"income" binding:"gte=0"`
	Expenses float64 `json:"expenses" binding:"gte=0"`
	TaxRate  float64 `json:"taxRate" binding:"gte=0,lte=1"`
}

func ProjectProfit(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profitRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute profit")
			return
		}
		c.JSON(http.StatusOK, finance.ComputeMonthlyProfit(req.Income, req.Expenses, req.TaxRate))
	}
}

type budgetImpactRequest struct {
	finance.Baseline
	CurrentLimit float64 `json:"currentLimit" binding:"gte=0"`
	NewLimit     float64 `json:"newLimit" binding:"gte=0"`
}

// ProjectBudgetImpact shows what moving one budget limit does to profit
// and runway.
func ProjectBudgetImpact(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req budgetImpactRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute budget impact")
			return
		}
		if req.Income < 0 || req.Expenses < 0 || req.TaxRate < 0 || req.TaxRate > 1 {
			respondError(c, invalidField("Invalid projection data", "baseline", "income and expenses must be 0 or greater, taxRate between 0 and 1"), "Failed to compute budget impact")
			return
		}
		delta := req.NewLimit - req.CurrentLimit
		c.JSON(http.StatusOK, gin.H{
			"delta":     finance.RoundCurrency(delta),
			"current":   req.Baseline.Current(),
			"projected": finance.ComputeBudgetImpact(req.Baseline, delta),
		})
	}
}

type goalTimelineRequest struct {
	TargetAmount        float64 `json:"targetAmount" binding:"gt=0"`
	SavedAmount         float64 `json:"savedAmount" binding:"gte=0"`
	MonthlyContribution float64 `json:"monthlyContribution" binding:"gte=0"`
	TargetDate          string  `json:"targetDate"`
}

func ProjectGoalTimeline(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req goalTimelineRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute goal timeline")
			return
		}
		in := finance.GoalInput{
			TargetAmount:        req.TargetAmount,
			SavedAmount:         req.SavedAmount,
			MonthlyContribution: req.MonthlyContribution,
		}
		if req.TargetDate != "" {
			d, err := models.ParseDate(req.TargetDate)
			if err != nil {
				respondError(c, invalidField("Invalid projection data", "targetDate", "must be an ISO 8601 date"), "Failed to compute goal timeline")
				return
			}
			in.TargetDate = &d
		}

		now := clock()
		timeline := finance.ComputeGoalTimeline(in, now, cfg.GoalPolicy())
		out := gin.H{"timeline": timeline}
		if in.TargetDate != nil {
			out["suggestedContribution"] = finance.SuggestedContribution(timeline.Remaining, *in.TargetDate, now)
		}
		c.JSON(http.StatusOK, out)
	}
}

type scenarioRequest struct {
	Revenue            float64   `json:"revenue" binding:"gte=0"`
	Expenses           float64   `json:"expenses" binding:"gte=0"`
	Cash               float64   `json:"cash"`
	TaxRate            float64   `json:"taxRate" binding:"gte=0,lte=1"`
	RevenueChangePct   float64   `json:"revenueChangePct" binding:"gte=-100"`
	AdditionalExpenses []float64 `json:"additionalExpenses" binding:"dive,gte=0"`
	AdjustTaxReserve   bool      `json:"adjustTaxReserve"`
}

func ProjectScenario(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scenarioRequest
		if err := bindJSON(c, &req, "Invalid scenario data"); err != nil {
			respondError(c, err, "Failed to compute scenario")
			return
		}
		c.JSON(http.StatusOK, finance.ComputeScenario(finance.ScenarioInput(req)))
	}
}

type taxReserveRequest struct {
	MonthlyIncome float64  `json:"monthlyIncome" binding:"gte=0"`
	Country       string   `json:"country"`
	RatePct       *float64 `json:"ratePct" binding:"omitempty,gte=0,lte=100"`
}

// ProjectTaxReserve uses ratePct when given, otherwise the country estimate.
func ProjectTaxReserve(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req taxReserveRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute tax reserve")
			return
		}
		rate := finance.CountryTaxRate(req.Country)
		if req.RatePct != nil {
			rate = *req.RatePct
		}
		c.JSON(http.StatusOK, finance.ComputeTaxReserve(req.MonthlyIncome, rate))
	}
}

type revenueGrowthRequest struct {
	Revenue     float64 `json:"revenue" binding:"gte=0"`
	Expenses    float64 `json:"expenses" binding:"gte=0"`
	Cash        float64 `json:"cash"`
	GrowthPct   float64 `json:"growthPct" binding:"gte=-100"`
	NewExpenses float64 `json:"newExpenses" binding:"gte=0"`
	TaxRate     float64 `json:"taxRate" binding:"gte=0,lte=1"`
}

func ProjectRevenueGrowth(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req revenueGrowthRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute revenue growth")
			return
		}
		c.JSON(http.StatusOK, finance.ComputeRevenueGrowth(finance.RevenueGrowthInput(req)))
	}
}

type revenueDropRequest struct {
	Cash        float64 `json:"cash"`
	Expenses    float64 `json:"expenses" binding:"gte=0"`
	Revenue     float64 `json:"revenue" binding:"gte=0"`
	RetainedPct float64 `json:"retainedPct" binding:"gte=0,lte=100"`
}

func ProjectRevenueDrop(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req revenueDropRequest
		if err := bindJSON(c, &req, "Invalid projection data"); err != nil {
			respondError(c, err, "Failed to compute revenue drop")
			return
		}
		c.JSON(http.StatusOK, finance.ComputeRevenueDrop(req.Cash, req.Expenses, req.Revenue, req.RetainedPct))
	}
}
