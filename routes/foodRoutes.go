package routes

import (
	"github.com/Kariqs/amexan-eats/controllers"
	"github.com/Kariqs/amexan-eats/middlewares"
	"github.com/gin-gonic/gin"
)

func FoodRoutes(server *gin.Engine) {
	server.GET("/foods", controllers.GetFoods)
	server.GET("/foods/:id", controllers.GetFood)
	server.GET("/categories", controllers.GetCategories)
	server.POST("/foods/:id/image", middlewares.Authenticate(), middlewares.RequireAdmin(), controllers.UploadFoodImage)
}
