package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to Amexan Eats API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/verify-email/:activationToken" - Activate user account
- POST "/auth/forgot-password" - Request password reset
- POST "/auth/reset-password/:resetToken" - Reset user password

CATALOG
- GET "/foods?search=&category=" - Search foods
- GET "/foods/:id" - Get food by ID
- GET "/categories" - List categories
- POST "/foods/:id/image" - Upload food image (admin)

CART
- GET "/cart" - Get cart with totals
- POST "/cart/items" - Add one unit of a food
- PATCH "/cart/items/:itemId" - Set line quantity (0 removes)
- DELETE "/cart/items/:itemId" - Remove line
- DELETE "/cart" - Clear cart
- POST "/cart/checkout" - Place order

ACCOUNT
- GET "/orders/mine" - Order history
- GET "/profile" - Get delivery profile
- PUT "/profile" - Save delivery profile

ORDER (admin)
- GET "/orders" - Retrieve all orders
- GET "/orders/undelivered" - Count undelivered orders
- GET "/orders/:orderId" - Get order by ID
- PATCH "/orders/:orderId" - Update order status
- DELETE "/orders/:orderId" - Delete order by ID

DATA
- GET|POST|PATCH|DELETE "/rest/v1/:table" - Row access scoped to the caller
- POST "/rest/v1/rpc/increment" - Increment a column`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
