package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/cart"
	"github.com/Kariqs/amexan-eats/checkout"
	"github.com/Kariqs/amexan-eats/controllers"
	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
	"github.com/Kariqs/amexan-eats/store/reststore"
	"github.com/Kariqs/amexan-eats/testutil"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	initializers.DB = testutil.OpenDB(t)
	initializers.Env = initializers.Config{
		JWTSecret:   testutil.TestSecret,
		JWTTTL:      time.Hour,
		FrontendURL: "http://localhost:5173",
		S3Bucket:    "test-bucket",
	}
	return NewRouter([]string{"http://localhost:5173"})
}

func request(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHome(t *testing.T) {
	router := newTestRouter(t)
	rec := request(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/rest/v1/:table")
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	client := auth.NewClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.Signup(ctx, "Ada@Example.com", "correct-horse", "Ada Lovelace"))
	assert.Error(t, client.Signup(ctx, "ada@example.com", "correct-horse", "Ada"), "email is unique")

	var user models.User
	require.NoError(t, initializers.DB.First(&user, "email = ?", "ada@example.com").Error)
	assert.False(t, user.AccountActivated)
	assert.NotEqual(t, "correct-horse", user.Password)

	var profile models.UserProfile
	require.NoError(t, initializers.DB.First(&profile, "id = ?", user.ID).Error)
	assert.Equal(t, "Ada Lovelace", profile.FullName)

	_, err := client.Login(ctx, "ada@example.com", "correct-horse")
	assert.ErrorContains(t, err, "not activated")

	rec := request(t, router, http.MethodPost, "/auth/verify-email/"+user.AccountActivationToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, router, http.MethodPost, "/auth/verify-email/"+user.AccountActivationToken, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "activation links are single use")

	_, err = client.Login(ctx, "ada@example.com", "wrong-password")
	assert.Error(t, err)

	token, err := client.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	session := auth.NewSession()
	id, err := session.SignIn(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.ID)
	assert.Equal(t, "ada@example.com", id.Email)
}

func TestPasswordReset(t *testing.T) {
	router := newTestRouter(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	client := auth.NewClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.Signup(ctx, "ada@example.com", "correct-horse", "Ada"))
	require.NoError(t, initializers.DB.Model(&models.User{}).Where("email = ?", "ada@example.com").
		Update("account_activated", true).Error)

	rec := request(t, router, http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code, "unknown emails are not disclosed")

	rec = request(t, router, http.MethodPost, "/auth/forgot-password", "", gin.H{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, initializers.DB.First(&user, "email = ?", "ada@example.com").Error)
	require.NotEmpty(t, user.PasswordResetToken)

	rec = request(t, router, http.MethodPost, "/auth/reset-password/"+user.PasswordResetToken, "", gin.H{"password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodPost, "/auth/reset-password/"+user.PasswordResetToken, "", gin.H{"password": "battery-staple"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := client.Login(ctx, "ada@example.com", "correct-horse")
	assert.Error(t, err)
	_, err = client.Login(ctx, "ada@example.com", "battery-staple")
	assert.NoError(t, err)
}

func TestLoginToken_Claims(t *testing.T) {
	router := newTestRouter(t)
	user := testutil.CreateUser(t, initializers.DB, "chef@example.com")
	hash, err := bcrypt.GenerateFromPassword([]byte("kitchen-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, initializers.DB.Model(&user).Updates(map[string]any{"password": string(hash), "role": "admin"}).Error)

	rec := request(t, router, http.MethodPost, "/auth/login", "", gin.H{"email": "chef@example.com", "password": "kitchen-secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(body["token"], claims, func(*jwt.Token) (any, error) {
		return []byte(testutil.TestSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Contains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
}

func seedCatalog(t *testing.T) (models.Category, models.Food, models.Food) {
	t.Helper()
	pizza := models.Category{Name: "Pizza"}
	require.NoError(t, initializers.DB.Create(&pizza).Error)
	margherita := models.Food{Name: "Margherita", Price: decimal.RequireFromString("9.99"), CategoryID: pizza.ID, Rating: 4.5}
	require.NoError(t, initializers.DB.Create(&margherita).Error)
	miso := testutil.CreateFood(t, initializers.DB, "Miso", "3.50")
	return pizza, margherita, miso
}

func TestFoods(t *testing.T) {
	router := newTestRouter(t)
	pizza, margherita, _ := seedCatalog(t)

	rec := request(t, router, http.MethodGet, "/foods", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[struct {
		Foods    []models.Food  `json:"foods"`
		Metadata map[string]int `json:"metadata"`
	}](t, rec)
	assert.Len(t, all.Foods, 2)
	assert.Equal(t, 2, all.Metadata["total"])

	rec = request(t, router, http.MethodGet, "/foods?category="+pizza.ID, "", nil)
	assert.Contains(t, rec.Body.String(), "Margherita")
	assert.NotContains(t, rec.Body.String(), "Miso")

	rec = request(t, router, http.MethodGet, "/foods?search=MISO&limit=1", "", nil)
	assert.Contains(t, rec.Body.String(), "Miso")

	rec = request(t, router, http.MethodGet, "/foods?page=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"foods":[]`)

	rec = request(t, router, http.MethodGet, "/foods/"+margherita.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	food := decode[models.Food](t, rec)
	assert.True(t, decimal.RequireFromString("9.99").Equal(food.Price))

	rec = request(t, router, http.MethodGet, "/foods/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodGet, "/categories", "", nil)
	assert.Contains(t, rec.Body.String(), "Pizza")
}

type fakeUploader struct {
	key  string
	body []byte
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.key = aws.ToString(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &manager.UploadOutput{Location: "https://" + aws.ToString(in.Bucket) + ".s3.amazonaws.com/" + f.key}, nil
}

func TestUploadFoodImage(t *testing.T) {
	router := newTestRouter(t)
	_, margherita, _ := seedCatalog(t)

	uploader := &fakeUploader{}
	previous := controllers.NewImageUploader
	controllers.NewImageUploader = func(context.Context) (controllers.ImageUploader, error) { return uploader, nil }
	t.Cleanup(func() { controllers.NewImageUploader = previous })

	upload := func(foodID, token string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		part, err := form.CreateFormFile("image", "pizza.JPG")
		require.NoError(t, err)
		part.Write([]byte("jpeg bytes"))
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/foods/"+foodID+"/image", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, upload(margherita.ID, testutil.Token(t, "user-a", "user")).Code)

	admin := testutil.Token(t, "admin-1", "admin")
	assert.Equal(t, http.StatusNotFound, upload("missing", admin).Code)

	rec := upload(margherita.ID, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []byte("jpeg bytes"), uploader.body)
	assert.Regexp(t, `^foods/`+margherita.ID+`-\d{14}\.jpg$`, uploader.key)

	var stored models.Food
	require.NoError(t, initializers.DB.First(&stored, "id = ?", margherita.ID).Error)
	assert.Equal(t, "https://test-bucket.s3.amazonaws.com/"+uploader.key, stored.ImageURL)
}

func TestDataAPI_Permissions(t *testing.T) {
	router := newTestRouter(t)
	_, margherita, _ := seedCatalog(t)
	tokenA := testutil.Token(t, "user-a", "user")

	rec := request(t, router, http.MethodGet, "/rest/v1/foods?select=*&order=name.asc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Food](t, rec), 2)

	rec = request(t, router, http.MethodGet, "/rest/v1/cart_items", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(t, router, http.MethodGet, "/rest/v1/users", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodGet, "/rest/v1/cart_items?quantity=gt.1", tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodPost, "/rest/v1/cart_items", tokenA,
		gin.H{"user_id": "user-b", "food_id": margherita.ID, "quantity": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(t, router, http.MethodPost, "/rest/v1/cart_items", tokenA,
		gin.H{"user_id": "user-a", "food_id": margherita.ID, "quantity": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String(), "minimal return by default")

	rec = request(t, router, http.MethodDelete, "/rest/v1/cart_items", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "deletes must be scoped to the owner")

	rec = request(t, router, http.MethodPost, "/rest/v1/rpc/increment", "", gin.H{"table": "cart_items"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(t, router, http.MethodPatch, "/rest/v1/foods?id=eq."+margherita.ID, tokenA, gin.H{"price": "0.01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDataAPI_CartQuantityStaysPositive(t *testing.T) {
	router := newTestRouter(t)
	_, margherita, miso := seedCatalog(t)
	tokenA := testutil.Token(t, "user-a", "user")

	for _, qty := range []int{0, -5} {
		rec := request(t, router, http.MethodPost, "/rest/v1/cart_items", tokenA,
			gin.H{"user_id": "user-a", "food_id": margherita.ID, "quantity": qty})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "quantity %d", qty)
	}

	rec := request(t, router, http.MethodPost, "/rest/v1/cart_items", tokenA,
		gin.H{"user_id": "user-a", "food_id": miso.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item models.CartItem
	require.NoError(t, initializers.DB.First(&item, "user_id = ?", "user-a").Error)

	path := "/rest/v1/cart_items?id=eq." + item.ID + "&user_id=eq.user-a"
	rec = request(t, router, http.MethodPatch, path, tokenA, gin.H{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodPost, "/rest/v1/rpc/increment", tokenA, gin.H{
		"table": "cart_items", "column": "quantity", "delta": -5,
		"filter": gin.H{"id": item.ID, "user_id": "user-a"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodGet, "/cart", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		TotalItems int             `json:"total_items"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}](t, rec)
	assert.Equal(t, 2, body.TotalItems)
	assert.True(t, decimal.RequireFromString("7.00").Equal(body.TotalPrice))
}

func TestDataAPI_PlacedOrdersAreReadOnly(t *testing.T) {
	router := newTestRouter(t)
	_, margherita, _ := seedCatalog(t)
	tokenA := testutil.Token(t, "user-a", "user")

	rec := request(t, router, http.MethodPost, "/rest/v1/orders", tokenA, gin.H{
		"user_id": "user-a", "total_price": "9.99", "status": models.OrderStatusDelivered,
		"name": "Ada", "address": "1 Main St",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, "new orders start pending")

	rec = request(t, router, http.MethodPost, "/rest/v1/orders", tokenA, gin.H{
		"user_id": "user-a", "total_price": "9.99", "name": "Ada", "address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order models.Order
	require.NoError(t, initializers.DB.First(&order, "user_id = ?", "user-a").Error)

	rec = request(t, router, http.MethodPost, "/rest/v1/order_items", tokenA, gin.H{
		"order_id": order.ID, "food_id": margherita.ID, "quantity": 1, "price": "9.99",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	orderPath := "/rest/v1/orders?id=eq." + order.ID + "&user_id=eq.user-a"
	rec = request(t, router, http.MethodPatch, orderPath, tokenA,
		gin.H{"status": models.OrderStatusDelivered, "total_price": "0.01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = request(t, router, http.MethodPatch, orderPath, tokenA, gin.H{"status": models.OrderStatusDelivered})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = request(t, router, http.MethodDelete, orderPath, tokenA, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	itemsPath := "/rest/v1/order_items?order_id=eq." + order.ID
	rec = request(t, router, http.MethodPatch, itemsPath, tokenA, gin.H{"price": "0.01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = request(t, router, http.MethodDelete, itemsPath, tokenA, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var stored models.Order
	require.NoError(t, initializers.DB.Preload("OrderItems").First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.True(t, decimal.RequireFromString("9.99").Equal(stored.TotalPrice))
	require.Len(t, stored.OrderItems, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(stored.OrderItems[0].Price))

	rec = request(t, router, http.MethodPatch, orderPath, tokenA, gin.H{"status": models.OrderStatusCancelled})
	assert.Equal(t, http.StatusNoContent, rec.Code, "owners may cancel a pending order")
	require.NoError(t, initializers.DB.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
}

// The cart engine, checkout and the REST client run against the real server.
func TestCartEngineOverDataAPI(t *testing.T) {
	router := newTestRouter(t)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	_, margherita, miso := seedCatalog(t)
	ctx := context.Background()

	session := auth.NewSession()
	client := reststore.New(srv.URL, "", session.Token)
	engine := cart.New(client, session, cart.Options{})
	t.Cleanup(engine.Attach(ctx))

	assert.ErrorIs(t, engine.AddToCart(ctx, margherita), cart.ErrNoIdentity)

	_, err := session.SignIn(testutil.Token(t, "user-a", "user"))
	require.NoError(t, err)

	require.NoError(t, engine.AddToCart(ctx, margherita))
	require.NoError(t, engine.AddToCart(ctx, margherita))
	require.NoError(t, engine.AddToCart(ctx, miso))
	require.Len(t, engine.Items(), 2)
	assert.True(t, decimal.RequireFromString("23.48").Equal(engine.TotalPrice()), "got %s", engine.TotalPrice())
	assert.Equal(t, 3, engine.TotalItems())

	var misoLine models.CartItem
	for _, item := range engine.Items() {
		if item.FoodID == miso.ID {
			misoLine = item
		}
	}
	require.NoError(t, engine.UpdateQuantity(ctx, misoLine.ID, 4))
	assert.Equal(t, 6, engine.TotalItems())
	require.NoError(t, engine.UpdateQuantity(ctx, misoLine.ID, 0))
	require.Len(t, engine.Items(), 1)

	orders := checkout.NewService(client, engine)
	order, err := orders.PlaceOrder(ctx, checkout.Details{Name: "Ada", Address: "1 Main St"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.98").Equal(order.TotalPrice))
	assert.Empty(t, engine.Items())

	history, err := orders.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].OrderItems, 1)
	assert.Equal(t, 2, history[0].OrderItems[0].Quantity)

	_, err = session.SignIn(testutil.Token(t, "user-b", "user"))
	require.NoError(t, err)
	assert.Empty(t, engine.Items())
	history, err = orders.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "orders are private to their owner")

	session.SignOut()
	err = client.Delete(ctx, store.TableCartItems, store.Filter{"user_id": "user-a"})
	assert.True(t, store.IsPermission(err), "signed-out clients cannot touch carts: %v", err)
}

func TestCartEndpoints(t *testing.T) {
	router := newTestRouter(t)
	_, margherita, miso := seedCatalog(t)
	token := testutil.Token(t, "user-a", "user")

	assert.Equal(t, http.StatusUnauthorized, request(t, router, http.MethodGet, "/cart", "", nil).Code)

	type cartBody struct {
		Items      []models.CartItem `json:"items"`
		TotalItems int               `json:"total_items"`
		TotalPrice decimal.Decimal   `json:"total_price"`
	}

	rec := request(t, router, http.MethodPost, "/cart/items", token, gin.H{"food_id": margherita.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, http.StatusOK, request(t, router, http.MethodPost, "/cart/items", token, gin.H{"food_id": margherita.ID}).Code)
	rec = request(t, router, http.MethodPost, "/cart/items", token, gin.H{"food_id": miso.ID})
	body := decode[cartBody](t, rec)
	require.Len(t, body.Items, 2)
	assert.Equal(t, 3, body.TotalItems)
	assert.True(t, decimal.RequireFromString("23.48").Equal(body.TotalPrice))

	rec = request(t, router, http.MethodPost, "/cart/items", token, gin.H{"food_id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var line models.CartItem
	for _, item := range body.Items {
		if item.FoodID == miso.ID {
			line = item
		}
	}
	rec = request(t, router, http.MethodPatch, "/cart/items/"+line.ID, token, gin.H{"quantity": -1})
	body = decode[cartBody](t, rec)
	assert.Len(t, body.Items, 1)

	rec = request(t, router, http.MethodPost, "/cart/checkout", token, gin.H{"name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, router, http.MethodPost, "/cart/checkout", token, gin.H{"name": "Ada", "address": "1 Main St"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = request(t, router, http.MethodGet, "/cart", token, nil)
	body = decode[cartBody](t, rec)
	assert.Empty(t, body.Items)
	assert.True(t, body.TotalPrice.IsZero())

	rec = request(t, router, http.MethodPost, "/cart/checkout", token, gin.H{"name": "Ada", "address": "1 Main St"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	rec = request(t, router, http.MethodGet, "/orders/mine", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[struct {
		Orders []models.Order `json:"orders"`
	}](t, rec)
	require.Len(t, mine.Orders, 1)

	rec = request(t, router, http.MethodPost, "/cart/items", token, gin.H{"food_id": miso.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, router, http.MethodDelete, "/cart", token, nil)
	assert.Empty(t, decode[cartBody](t, rec).Items)
}

func TestProfileEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := testutil.Token(t, "user-a", "user")

	rec := request(t, router, http.MethodPut, "/profile", token, gin.H{"full_name": "Ada", "address": "1 Main St"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = request(t, router, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"address":"1 Main St"`)
}

func TestAdminOrders(t *testing.T) {
	router := newTestRouter(t)
	food := testutil.CreateFood(t, initializers.DB, "Margherita", "9.99")
	for _, user := range []string{"user-a", "user-b", "user-c"} {
		order := models.Order{
			UserID:     user,
			TotalPrice: food.Price,
			Name:       user,
			Address:    "1 Main St",
			OrderItems: []models.OrderItem{{FoodID: food.ID, Quantity: 1, Price: food.Price}},
		}
		require.NoError(t, initializers.DB.Create(&order).Error)
	}
	admin := testutil.Token(t, "admin-1", "admin")

	assert.Equal(t, http.StatusForbidden, request(t, router, http.MethodGet, "/orders", testutil.Token(t, "user-a", "user"), nil).Code)

	rec := request(t, router, http.MethodGet, "/orders?limit=2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Orders   []models.Order `json:"orders"`
		Metadata map[string]any `json:"metadata"`
	}](t, rec)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, float64(3), page.Metadata["total"])
	assert.Equal(t, true, page.Metadata["hasNextPage"])

	id := page.Orders[0].ID
	rec = request(t, router, http.MethodPatch, "/orders/"+id, admin, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = request(t, router, http.MethodPatch, "/orders/"+id, admin, gin.H{"status": models.OrderStatusDelivered})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, router, http.MethodPatch, "/orders/missing", admin, gin.H{"status": models.OrderStatusDelivered})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodGet, "/orders/undelivered", admin, nil)
	assert.JSONEq(t, `{"undeliveredOrderCount":2}`, rec.Body.String())

	rec = request(t, router, http.MethodGet, "/orders/"+id, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"delivered"`)

	require.Equal(t, http.StatusOK, request(t, router, http.MethodDelete, "/orders/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, request(t, router, http.MethodGet, "/orders/"+id, admin, nil).Code)
	var items int64
	initializers.DB.Model(&models.OrderItem{}).Where("order_id = ?", id).Count(&items)
	assert.Zero(t, items)
}
