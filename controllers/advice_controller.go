package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"finboard/backend/config"
	"finboard/backend/finance"
	"finboard/backend/logger"
	"finboard/backend/middlewares"
	"finboard/backend/store"
	"finboard/backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

type adviceRequest struct {
	Question string `json:"question" binding:"max=1000"`
	GoalID   string `json:"goalId"`
}

const advisorInstruction = "You are a financial assistant for freelancers and small businesses. " +
	"Answer in at most three short sentences using only the numbers in the facts provided. " +
	"If the facts do not cover the question, say what data is missing. Never invent transactions."

const aiTimeout = 20 * time.Second

// generateAdvice asks Gemini for an answer grounded in facts.
var generateAdvice = func(ctx context.Context, cfg config.Config, facts, question string) (string, error) {
	client, err := utils.NewAIClient(ctx, utils.AIConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	if err != nil {
		return "", err
	}
	defer client.Close()
	return utils.GenerateText(ctx, client, cfg.GeminiModel, advisorInstruction,
		genai.Text("Facts (JSON): "+facts),
		genai.Text("Question: "+question),
	)
}

// Advice answers a question about the caller's finances. The rule-based
// answer is always computed; Gemini rewrites the reply when configured and
// reachable.
func Advice(s store.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adviceRequest
		if c.Request.ContentLength != 0 {
			if err := bindJSON(c, &req, "Invalid advice request"); err != nil {
				respondError(c, err, "Failed to generate advice")
				return
			}
		}
		req.Question = strings.TrimSpace(req.Question)

		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		snap, err := loadSnapshot(ctx, c, s, cfg)
		if err != nil {
			respondError(c, err, "Failed to generate advice")
			return
		}
		now := clock()
		dash := finance.BuildDashboard(snap, cfg.GoalPolicy(), now)

		in := finance.AdviceInput{Dashboard: dash, Baseline: snap.Baseline(now), Question: req.Question}
		if req.GoalID != "" {
			g, err := s.GetSavingGoal(ctx, middlewares.UserID(c), req.GoalID)
			if err != nil {
				respondLookupError(c, err, "Saving goal not found", "Failed to generate advice")
				return
			}
			in.Goal = &finance.GoalSummary{Goal: g, Timeline: finance.ComputeGoalTimeline(finance.GoalInput{
				TargetAmount:        g.TargetAmount,
				SavedAmount:         g.SavedAmount,
				MonthlyContribution: g.MonthlyContribution,
				TargetDate:          g.TargetDate,
			}, now, cfg.GoalPolicy())}
		}
		advice := finance.Advise(in)

		aiUsed := false
		if cfg.GeminiAPIKey != "" && req.Question != "" {
			if reply, ok := askAI(c, cfg, req.Question, gin.H{"dashboard": dash, "goal": in.Goal, "ruleBasedAnswer": advice}); ok {
				advice.Reply = reply
				aiUsed = true
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"reply":             advice.Reply,
			"reason":            advice.Reason,
			"actions":           advice.Actions,
			"suggestedNextStep": advice.SuggestedNextStep,
			"insights":          dash.Insights,
			"aiUsed":            aiUsed,
			"dataSource":        advice.DataSource,
		})
	}
}

// askAI returns Gemini's reply to question. ok is false when the facts
// cannot be encoded, the call fails or the reply is empty.
func askAI(c *gin.Context, cfg config.Config, question string, facts any) (string, bool) {
	encoded, err := json.Marshal(facts)
	if err != nil {
		logger.Get().Error("encode advice facts, using rule-based reply", zap.Error(err))
		return "", false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()
	reply, err := generateAdvice(ctx, cfg, string(encoded), question)
	if err != nil {
		logger.Get().Warn("ai advice failed, using rule-based reply", zap.Error(err))
		return "", false
	}
	return reply, reply != ""
}
