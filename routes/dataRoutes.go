package routes

import (
	"github.com/Kariqs/amexan-eats/controllers"
	"github.com/Kariqs/amexan-eats/middlewares"
	"github.com/gin-gonic/gin"
)

// DataRoutes exposes the row-level data API used by the cart client.
// Anonymous callers can read the catalog tables only.
func DataRoutes(server *gin.Engine) {
	data := server.Group("/rest/v1", middlewares.Authenticate())
	{
		data.GET("/:table", controllers.SelectRows)
		data.POST("/:table", controllers.InsertRows)
		data.PATCH("/:table", controllers.UpdateRows)
		data.DELETE("/:table", controllers.DeleteRows)
		data.POST("/rpc/increment", middlewares.RequireAuth(), controllers.IncrementColumn)
	}
}
