package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// POST /api/ai-feedback
// Forwards the nutrient summary and clinical context to the feedback
// collaborator and returns its prose as-is.
func AIFeedback(c *gin.Context) {
	var input services.FeedbackRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewFeedbackService()
	feedback, err := svc.GetFeedback(input)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ai_feedback": feedback})
}
