package controllers

import (
	"errors"
	"net/http"

	"backend/config"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type CalculateNutritionInput struct {
	SelectedFoods  []services.MenuItem `json:"selected_foods" binding:"required"`
	RDAProfileName string              `json:"rda_profile_name" binding:"required"`
}

// POST /api/calculate-nutrition
// Runs the aggregator and comparator back to back and returns the combined
// report. Unknown nutrient totals stay null all the way to the client.
func CalculateNutrition(c *gin.Context) {
	var input CalculateNutritionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := services.NewCatalogService(config.DB)
	nutrition := services.NewNutritionService(catalog)

	resolved, totals, err := nutrition.Aggregate(input.SelectedFoods)
	if err != nil {
		var notFound *services.FoodNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "food_name": notFound.FoodName})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := nutrition.Compare(totals, input.RDAProfileName)
	if err != nil {
		var notFound *services.ProfileNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "profile_name": notFound.ProfileName})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected_menu":       resolved,
		"total_nutrients":     totals,
		"rda_profile_name":    report.ProfileName,
		"rda_targets":         report.Targets,
		"nutrient_comparison": report.Comparison,
		"final_summary":       report.Summary,
	})
}
