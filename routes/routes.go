package routes

import (
	"github.com/Vitalis-Health-Tracker/diet-service/controllers"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the diet endpoints. The first path parameter is the
// user id on collection routes and the record id on the food item
// routes; gin requires one shared name per position, hence ":id".
func SetupRouter(dc *controllers.DietController, rc *controllers.RealtimeController) *gin.Engine {
	r := gin.Default()

	diet := r.Group("/diet")
	{
		diet.POST("/:id/food", dc.StageFood)
		diet.POST("/:id/food/custom", dc.StageCustomFood)
		diet.POST("/:id/food/direct", dc.AddFoodDirect)
		diet.POST("/:id/commit", dc.CommitDiet)
		diet.GET("/:id", dc.GetDiet)
		diet.GET("/:id/calories", dc.TotalCalories)
		diet.PUT("/:id/food/:foodId", dc.EditFood)
		diet.DELETE("/:id/food/:foodId", dc.DeleteFood)
		diet.GET("/:id/events", rc.DietWS)
	}

	return r
}
