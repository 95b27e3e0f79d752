package routes

import (
    "backend/controllers"
    "backend/middlewares"

    "github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
    r := gin.Default()

    // Public auth routes
    auth := r.Group("/auth")
    {
        auth.POST("/register", controllers.Register)
        auth.POST("/login", controllers.Login)
    }

    // Protected API
    api := r.Group("/api")
    api.Use(middlewares.AuthMiddleware())
    {
        // patients
        api.POST("/patients", controllers.CreatePatient)
        api.GET("/patients", controllers.ListPatients)
        api.GET("/patients/:id", controllers.GetPatient)
        api.PUT("/patients/:id", controllers.UpdatePatient)
        api.DELETE("/patients/:id", controllers.DeletePatient)

        // catalog
        api.POST("/upload-foods", controllers.UploadFoods)
        api.POST("/upload-rda", controllers.UploadRDA)
        api.GET("/foods", controllers.ListFoods)
        api.GET("/rda-profiles", controllers.ListRDAProfiles)

        // nutrition
        api.POST("/calculate-nutrition", controllers.CalculateNutrition)
        api.POST("/ai-feedback", controllers.AIFeedback)

        // kitchen
        api.POST("/send-to-kitchen", controllers.SendToKitchen)
        api.PATCH("/meal-plan-items/:id", controllers.UpdateMealPlanItem)
        api.GET("/meal-plans", controllers.ListMealPlans)
        api.GET("/kitchen/summary", controllers.KitchenSummary)
        api.GET("/kitchen/ws", controllers.KitchenWS)
    }

    return r
}
