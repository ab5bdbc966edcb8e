package main

import (
	"log"
	"os"

	"github.com/Vitalis-Health-Tracker/diet-service/config"
	"github.com/Vitalis-Health-Tracker/diet-service/controllers"
	"github.com/Vitalis-Health-Tracker/diet-service/routes"
	"github.com/Vitalis-Health-Tracker/diet-service/services"
)

func main() {
	db := config.InitDB()

	store := services.NewGormDietStore(db)
	lookup := services.NewFoodAPIService()
	staging := services.NewStagingBuffer()
	hub := services.NewDietHub()
	dietSvc := services.NewDietService(store, lookup, staging, hub)

	dc := controllers.NewDietController(dietSvc)
	rc := controllers.NewRealtimeController(hub)

	r := routes.SetupRouter(dc, rc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
