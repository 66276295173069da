package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"backend/models"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type ScanController struct {
	Vision *services.GeminiService
	Logs   *services.LogService
}

func NewScanController(vision *services.GeminiService, logs *services.LogService) *ScanController {
	return &ScanController{Vision: vision, Logs: logs}
}

type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /scan/analyze: runs the vision provider on a photo and returns the
// estimate without persisting anything; the client saves explicitly via
// POST /logs once the user confirms. That split also means an abandoned
// analysis never leaves a record behind.
func (h *ScanController) Analyze(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	analysis, err := h.Vision.AnalyzeMealImage(c.Request.Context(), req.ImageBase64)
	if err != nil {
		if errors.Is(err, services.ErrNotFood) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no food detected", "is_food": false})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// Photo storage is best-effort; a failed upload must not cost the user
	// their analysis.
	imageURI, err := utils.UploadMealPhoto(req.ImageBase64, userID)
	if err != nil {
		log.Printf("meal photo upload failed: %v", err)
		imageURI = ""
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis, "image_uri": imageURI})
}

type SaveLogRequest struct {
	FoodName          string          `json:"foodName" binding:"required"`
	Calories          float64         `json:"calories" binding:"gte=0"`
	Macros            services.Macros `json:"macros"`
	Micros            map[string]any  `json:"micros"`
	Category          string          `json:"category" binding:"required"`
	Quantity          float64         `json:"quantity"`
	HealthScore       int             `json:"healthScore" binding:"gte=0,lte=100"`
	HealthScoreReason string          `json:"healthScoreReason"`
	Confidence        float64         `json:"confidence"`
	ImageURI          string          `json:"imageUri"`
	LoggedAt          time.Time       `json:"loggedAt"`
}

// POST /logs: persists a confirmed analysis as a FoodLog.
func (h *ScanController) SaveLog(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SaveLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsMealCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	if req.Macros.Protein < 0 || req.Macros.Carbs < 0 || req.Macros.Fat < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "macros must be non-negative"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	analysis := &services.FoodAnalysis{
		IsFood:            true,
		FoodName:          req.FoodName,
		Calories:          req.Calories,
		Macros:            req.Macros,
		Micros:            req.Micros,
		Category:          req.Category,
		Confidence:        req.Confidence,
		HealthScore:       req.HealthScore,
		HealthScoreReason: req.HealthScoreReason,
		Quantity:          req.Quantity,
	}

	entry, err := h.Logs.Create(c.Request.Context(), userID, analysis, req.ImageURI, req.LoggedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}
