package controllers

import (
	"errors"
	"net/http"

	"github.com/Kariqs/amexan-eats/account"
	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/cart"
	"github.com/Kariqs/amexan-eats/checkout"
	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/Kariqs/amexan-eats/middlewares"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store/gormstore"
	"github.com/gin-gonic/gin"
)

type cartSession struct {
	remote *gormstore.Store
	engine *cart.Engine
}

// openCart loads the caller's cart into a request-scoped engine. It writes
// the error response itself and reports false on failure.
func openCart(ctx *gin.Context) (*cartSession, bool) {
	session := auth.NewSession()
	id, err := session.SignIn(middlewares.Token(ctx))
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	remote := gormstore.New(initializers.DB).As(id.ID)
	engine := cart.New(remote, session, cart.Options{})
	if err := engine.SetIdentity(ctx.Request.Context(), id, true); err != nil {
		respondWithStoreError(ctx, err)
		return nil, false
	}
	return &cartSession{remote: remote, engine: engine}, true
}

func sendCart(ctx *gin.Context, status int, engine *cart.Engine) {
	items := engine.Items()
	sendJSONResponse(ctx, status, gin.H{
		"items":       items,
		"total_items": cart.TotalItems(items),
		"total_price": cart.TotalPrice(items),
	})
}

func GetCart(ctx *gin.Context) {
	c, ok := openCart(ctx)
	if !ok {
		return
	}
	sendCart(ctx, http.StatusOK, c.engine)
}

func AddCartItem(ctx *gin.Context) {
	var body struct {
		FoodID string `json:"food_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	c, ok := openCart(ctx)
	if !ok {
		return
	}

	food, err := catalogService().Food(ctx.Request.Context(), body.FoodID)
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	if err := c.engine.AddToCart(ctx.Request.Context(), food); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendCart(ctx, http.StatusOK, c.engine)
}

func UpdateCartItem(ctx *gin.Context) {
	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	c, ok := openCart(ctx)
	if !ok {
		return
	}

	if err := c.engine.UpdateQuantity(ctx.Request.Context(), ctx.Param("itemId"), *body.Quantity); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendCart(ctx, http.StatusOK, c.engine)
}

func RemoveCartItem(ctx *gin.Context) {
	c, ok := openCart(ctx)
	if !ok {
		return
	}
	if err := c.engine.RemoveFromCart(ctx.Request.Context(), ctx.Param("itemId")); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendCart(ctx, http.StatusOK, c.engine)
}

func ClearCart(ctx *gin.Context) {
	c, ok := openCart(ctx)
	if !ok {
		return
	}
	if err := c.engine.ClearCart(ctx.Request.Context()); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendCart(ctx, http.StatusOK, c.engine)
}

// Checkout places an order for the caller's cart.
func Checkout(ctx *gin.Context) {
	var details checkout.Details
	if err := ctx.ShouldBindJSON(&details); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	c, ok := openCart(ctx)
	if !ok {
		return
	}

	order, err := checkout.NewService(c.remote, c.engine).PlaceOrder(ctx.Request.Context(), details)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrMissingDetails):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondWithStoreError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Order placed successfully.", "order": order})
}

func GetMyOrders(ctx *gin.Context) {
	c, ok := openCart(ctx)
	if !ok {
		return
	}
	orders, err := checkout.NewService(c.remote, c.engine).History(ctx.Request.Context())
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func profileService(ctx *gin.Context) (*account.Service, bool) {
	session := auth.NewSession()
	id, err := session.SignIn(middlewares.Token(ctx))
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return account.NewService(gormstore.New(initializers.DB).As(id.ID), session), true
}

func GetProfile(ctx *gin.Context) {
	s, ok := profileService(ctx)
	if !ok {
		return
	}
	profile, err := s.Profile(ctx.Request.Context())
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"profile": profile})
}

func UpdateProfile(ctx *gin.Context) {
	var profile models.UserProfile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	s, ok := profileService(ctx)
	if !ok {
		return
	}
	saved, err := s.SaveProfile(ctx.Request.Context(), profile)
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"profile": saved})
}
