package controllers

import (
	"math"
	"net/http"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	Svc *services.SummaryService
}

func NewSummaryController(svc *services.SummaryService) *SummaryController {
	return &SummaryController{Svc: svc}
}

// GET /summary/daily?date=YYYY-MM-DD
// Aggregation returns exact sums; display rounding happens here, at the
// presentation boundary.
func (h *SummaryController) Daily(c *gin.Context) {
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

	out, err := h.Svc.Daily(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out.Totals = roundTotals(out.Totals)
	c.JSON(http.StatusOK, out)
}

// GET /summary/weekly: 7-day calorie trend, summed macros and micro
// highlights for the analysis screen.
func (h *SummaryController) Weekly(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	out, err := h.Svc.Weekly(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out.Macros = roundTotals(out.Macros)
	for i := range out.Trend {
		out.Trend[i].Calories = math.Round(out.Trend[i].Calories)
	}
	c.JSON(http.StatusOK, out)
}

func roundTotals(t services.MacroTotals) services.MacroTotals {
	return services.MacroTotals{
		Calories: math.Round(t.Calories),
		Protein:  math.Round(t.Protein),
		Carbs:    math.Round(t.Carbs),
		Fat:      math.Round(t.Fat),
	}
}

// --- helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}

// dateFromQuery reads ?date=YYYY-MM-DD, defaulting to today.
func dateFromQuery(c *gin.Context) (time.Time, error) {
	now := time.Now()
	dateStr := c.Query("date")
	if dateStr == "" {
		return now, nil
	}
	return time.ParseInLocation("2006-01-02", dateStr, now.Location())
}
