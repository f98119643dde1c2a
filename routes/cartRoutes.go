package routes

import (
	"github.com/Kariqs/amexan-eats/controllers"
	"github.com/Kariqs/amexan-eats/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.Authenticate(), middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.DELETE("", controllers.ClearCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.PATCH("/items/:itemId", controllers.UpdateCartItem)
		cart.DELETE("/items/:itemId", controllers.RemoveCartItem)
		cart.POST("/checkout", controllers.Checkout)
	}

	profile := server.Group("/profile", middlewares.Authenticate(), middlewares.RequireAuth())
	{
		profile.GET("", controllers.GetProfile)
		profile.PUT("", controllers.UpdateProfile)
	}
}
