package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// POST /food/recognize  { "image_base64": "data:…" }
// Label-detection suggestions for manual logging, when the user would
// rather pick a name than wait for a full analysis.
func RecognizeFood(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	labelSvc := services.NewLabelService()
	suggestions, err := labelSvc.SuggestFoodNames(c.Request.Context(), req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
