package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type TrackerController struct {
	Svc      *services.TrackerService
	Profiles *services.ProfileService
}

func NewTrackerController(svc *services.TrackerService, profiles *services.ProfileService) *TrackerController {
	return &TrackerController{Svc: svc, Profiles: profiles}
}

type WaterInput struct {
	AmountMl float64   `json:"amount_ml" binding:"required"`
	LoggedAt time.Time `json:"logged_at"`
}

func (h *TrackerController) AddWater(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input WaterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.Svc.AddWater(c.Request.Context(), userID, input.AmountMl, input.LoggedAt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// GET /water?date=YYYY-MM-DD: the day's logs plus total and progress
// against the resolved water target.
func (h *TrackerController) GetWater(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := dateFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
		return
	}

	logs, err := h.Svc.WaterForDay(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// A missing profile just means default targets.
	profile, _ := h.Profiles.Get(c.Request.Context(), userID)
	targets := services.ResolveTargets(profile)

	total := services.DailyWaterTotal(logs, date)
	c.JSON(http.StatusOK, gin.H{
		"logs":     logs,
		"total_ml": total,
		"goal_ml":  targets.Water,
		"progress": services.WaterProgress(total, targets.Water),
	})
}

type WeightInput struct {
	WeightKg float64   `json:"weight_kg" binding:"required"`
	LoggedAt time.Time `json:"logged_at"`
}

func (h *TrackerController) AddWeight(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input WeightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.Svc.AddWeight(c.Request.Context(), userID, input.WeightKg, input.LoggedAt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWeight) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// GET /weight?days=30: trailing history, ascending, plus the current
// weight (same-day entry preferred, latest otherwise).
func (h *TrackerController) GetWeight(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := 30
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	history, err := h.Svc.WeightHistory(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	current, err := h.Svc.LatestWeight(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"current": current, // null when the user has never logged a weight
	})
}
