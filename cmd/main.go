package main

import (
    "os"

    "backend/config"
    "backend/routes"
    "backend/services"
)

func main() {
    config.InitDB()
    services.InitKitchenHub()

    r := routes.SetupRouter()

    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }
    r.Run(":" + port)
}
