package controllers

import (
	"net/http"

	"finboard/backend/config"
	"finboard/backend/finance"
	"finboard/backend/middlewares"
	"finboard/backend/models"
	"finboard/backend/store"

	"github.com/gin-gonic/gin"
)

func ListSavingGoals(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		goals, err := s.ListSavingGoals(ctx, middlewares.UserID(c))
		if err != nil {
			respondError(c, err, "Failed to fetch saving goals")
			return
		}
		c.JSON(http.StatusOK, gin.H{"goals": goals})
	}
}

func CreateSavingGoal(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.SavingGoalInput
		if err := bindJSON(c, &in, "Invalid saving goal data"); err != nil {
			respondError(c, err, "Failed to create saving goal")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		g, err := s.CreateSavingGoal(ctx, middlewares.UserID(c), in)
		if err != nil {
			respondError(c, err, "Failed to create saving goal")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Saving goal created successfully", "goal": g})
	}
}

func GetSavingGoal(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		g, err := s.GetSavingGoal(ctx, middlewares.UserID(c), c.Param("id"))
		if err != nil {
			respondLookupError(c, err, "Saving goal not found", "Failed to fetch saving goal")
			return
		}
		c.JSON(http.StatusOK, gin.H{"goal": g})
	}
}

func UpdateSavingGoal(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.SavingGoalPatch
		if err := bindJSON(c, &p, "Invalid saving goal data"); err != nil {
			respondError(c, err, "Failed to update saving goal")
			return
		}
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		g, err := s.UpdateSavingGoal(ctx, middlewares.UserID(c), c.Param("id"), p)
		if err != nil {
			respondLookupError(c, err, "Saving goal not found", "Failed to update saving goal")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Saving goal updated successfully", "goal": g})
	}
}

func DeleteSavingGoal(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		if err := s.DeleteSavingGoal(ctx, middlewares.UserID(c), c.Param("id")); err != nil {
			respondLookupError(c, err, "Saving goal not found", "Failed to delete saving goal")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Saving goal deleted successfully"})
	}
}

// SavingGoalProjection reports when the goal completes at its current
// contribution and what that contribution does to runway.
func SavingGoalProjection(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		uid := middlewares.UserID(c)
		g, err := s.GetSavingGoal(ctx, uid, c.Param("id"))
		if err != nil {
			respondLookupError(c, err, "Saving goal not found", "Failed to fetch saving goal")
			return
		}
		snap, err := loadSnapshot(ctx, c, s, cfg)
		if err != nil {
			respondError(c, err, "Failed to fetch saving goal")
			return
		}

		now := clock()
		base := snap.Baseline(now)
		timeline := finance.ComputeGoalTimeline(finance.GoalInput{
			TargetAmount:        g.TargetAmount,
			SavedAmount:         g.SavedAmount,
			MonthlyContribution: g.MonthlyContribution,
			TargetDate:          g.TargetDate,
		}, now, cfg.GoalPolicy())

		out := gin.H{
			"goal":     g,
			"timeline": timeline,
			"impact":   finance.ComputeGoalImpact(base, g.MonthlyContribution),
			"baseline": base,
		}
		if g.TargetDate != nil {
			out["suggestedContribution"] = finance.SuggestedContribution(timeline.Remaining, *g.TargetDate, now)
		}
		c.JSON(http.StatusOK, out)
	}
}
