package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/config"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type SendMealPlanInput struct {
	PatientID uint                                  `json:"patient_id" binding:"required"`
	MealPlan  map[string][]services.PlanItemRequest `json:"meal_plan" binding:"required"`
}

// POST /api/send-to-kitchen
func SendToKitchen(c *gin.Context) {
	var input SendMealPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := services.NewCatalogService(config.DB)
	planSvc := services.NewMealPlanService(config.DB, catalog)

	plan, err := planSvc.CreatePlan(input.PatientID, input.MealPlan)
	if err != nil {
		var notFound *services.FoodNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "food_name": notFound.FoodName})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Meal plan sent to kitchen dashboard successfully!",
		"meal_plan_id": plan.ID,
	})
}

type UpdateItemStatusInput struct {
	Prepared  *bool `json:"prepared"`
	Delivered *bool `json:"delivered"`
}

// PATCH /api/meal-plan-items/:id
func UpdateMealPlanItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var input UpdateItemStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := services.NewCatalogService(config.DB)
	planSvc := services.NewMealPlanService(config.DB, catalog)

	item, err := planSvc.UpdateItemStatus(uint(itemID), input.Prepared, input.Delivered)
	if err != nil {
		var invalid *services.InvalidTransitionError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusConflict, gin.H{"error": invalid.Error()})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meal plan item not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Meal plan item status updated successfully.",
		"item_id":   item.ID,
		"prepared":  item.Prepared,
		"delivered": item.Delivered,
	})
}

// GET /api/meal-plans?date=2006-01-02
func ListMealPlans(c *gin.Context) {
	var day *time.Time
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = &parsed
	}

	catalog := services.NewCatalogService(config.DB)
	planSvc := services.NewMealPlanService(config.DB, catalog)

	plans, err := planSvc.ListPlans(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(plans))
	for _, plan := range plans {
		var patient gin.H
		if plan.Patient != nil {
			patient = gin.H{
				"id":          plan.Patient.ID,
				"hospital_id": plan.Patient.HospitalID,
				"name":        plan.Patient.Name,
				"age":         plan.Patient.Age,
				"sex":         plan.Patient.Sex,
			}
		}
		items := make([]gin.H, 0, len(plan.Items))
		for _, item := range plan.Items {
			items = append(items, gin.H{
				"id":            item.ID,
				"meal_category": item.MealCategory,
				"food_name":     item.FoodName,
				"quantity":      item.Quantity,
				"prepared":      item.Prepared,
				"delivered":     item.Delivered,
			})
		}
		out = append(out, gin.H{
			"id":        plan.ID,
			"timestamp": plan.CreatedAt,
			"patient":   patient,
			"items":     items,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/kitchen/summary?date=2006-01-02 (defaults to today)
func KitchenSummary(c *gin.Context) {
	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	catalog := services.NewCatalogService(config.DB)
	planSvc := services.NewMealPlanService(config.DB, catalog)

	summary, err := planSvc.Summary(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GET /api/kitchen/ws: live item status stream for kitchen dashboards.
func KitchenWS(c *gin.Context) {
	hub := services.Kitchen()
	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime hub not running"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	hub.Register(conn)

	// drain the connection; we only push, clients never send
	go func() {
		defer hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
