package routes

import (
	"github.com/Kariqs/amexan-eats/controllers"
	"github.com/Kariqs/amexan-eats/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.Authenticate(), middlewares.RequireAuth())
	{
		orders.GET("/mine", controllers.GetMyOrders)

		admin := orders.Group("", middlewares.RequireAdmin())
		admin.GET("", controllers.GetOrders)
		admin.GET("/undelivered", controllers.GetUndeliveredOrders)
		admin.GET("/:orderId", controllers.GetOrderById)
		admin.PATCH("/:orderId", controllers.UpdateOrderStatus)
		admin.DELETE("/:orderId", controllers.DeleteOrder)
	}
}
