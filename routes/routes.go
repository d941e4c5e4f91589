package routes

import (
	"log/slog"
	"net/http"

	"cravecart-api/events"
	"cravecart-api/handlers"
	"cravecart-api/middleware"
	"cravecart-api/models"
	"cravecart-api/repository"
	"cravecart-api/services"
	"cravecart-api/telemetry"
	"cravecart-api/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators the API is built from
type Deps struct {
	DB          *gorm.DB
	Logger      *slog.Logger
	Tokens      *middleware.Tokens
	Publisher   events.Publisher // sinks besides the websocket hub; may be nil
	Images      services.ImageStore
	Metrics     *telemetry.Metrics
	MetricsHTTP http.Handler // serves /metrics when set
	UploadDir   string
	CORSOrigins []string
}

// NewRouter wires repositories, services and handlers onto a gin engine
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}
	if d.Metrics == nil {
		d.Metrics = telemetry.NopMetrics()
	}

	hub := ws.NewOrderHub(d.Logger)
	publisher := events.Multi{hub}
	if d.Publisher != nil {
		publisher = append(publisher, d.Publisher)
	}

	users := repository.NewUserRepository(d.DB)
	foods := repository.NewFoodRepository(d.DB)
	carts := repository.NewCartRepository(d.DB)
	orders := repository.NewOrderRepository(d.DB)
	restaurants := repository.NewRestaurantRepository(d.DB)

	authH := handlers.NewAuthHandler(services.NewAuthService(users, d.Tokens), d.Logger)
	cartH := handlers.NewCartHandler(services.NewCartService(carts, foods, d.Metrics, d.Logger), d.Logger)
	orderH := handlers.NewOrderHandler(
		services.NewOrderService(d.DB, orders, carts, users, foods, publisher, d.Metrics, d.Logger),
		hub, d.Logger)
	catalogH := handlers.NewCatalogHandler(services.NewCatalogService(restaurants, foods, d.Images, d.Logger), d.Logger)

	r := gin.New()
	if gin.IsDebugging() {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(d.Logger), middleware.CORS(d.CORSOrigins))

	r.GET("/", handlers.Welcome)
	r.GET("/health", handlers.Health)
	if d.MetricsHTTP != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHTTP))
	}
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	authRequired := d.Tokens.AuthRequired()
	staff := middleware.RoleRequired(models.RoleAdmin, models.RoleOwner)
	customer := middleware.RoleRequired(models.RoleCustomer)

	api := r.Group("/api")

	// ── Auth ───────────────────────────────────────────────────────
	auth := api.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.GET("/profile", authRequired, authH.Profile)
	}

	// ── Catalog ────────────────────────────────────────────────────
	restaurantsG := api.Group("/restaurants")
	{
		restaurantsG.GET("", d.Tokens.OptionalAuth(), catalogH.ListRestaurants)
		restaurantsG.GET("/:id", catalogH.GetRestaurant)
		restaurantsG.POST("", authRequired, staff, catalogH.CreateRestaurant)
		restaurantsG.PUT("/:id", authRequired, staff, catalogH.UpdateRestaurant)
		restaurantsG.DELETE("/:id", authRequired, staff, catalogH.DeleteRestaurant)
	}
	foodsG := api.Group("/foods")
	{
		foodsG.GET("/restaurant/:restaurantId", catalogH.ListFoods)
		foodsG.POST("", authRequired, staff, catalogH.CreateFood)
		foodsG.PUT("/:id", authRequired, staff, catalogH.UpdateFood)
		foodsG.DELETE("/:id", authRequired, staff, catalogH.DeleteFood)
	}

	// ── Cart (customer) ────────────────────────────────────────────
	cart := api.Group("/cart", authRequired, customer)
	{
		cart.GET("", cartH.Get)
		cart.POST("", cartH.Add)
		cart.DELETE("", cartH.Clear)
		cart.DELETE("/:foodId", cartH.Remove)
	}

	// ── Orders ─────────────────────────────────────────────────────
	ordersG := api.Group("/orders")
	{
		ordersG.GET("/state-machine", orderH.StateMachine)
		ordersG.GET("/ws", d.Tokens.WSAuth(), orderH.Stream)

		ordersG.POST("", authRequired, customer, orderH.Create)
		ordersG.GET("/myorders", authRequired, customer, orderH.MyOrders)
		ordersG.PUT("/:id/cancel", authRequired, customer, orderH.Cancel)

		ordersG.GET("", authRequired, staff, orderH.List)
		ordersG.PUT("/:id/status", authRequired, staff, orderH.UpdateStatus)

		ordersG.GET("/:id", authRequired, orderH.Get)
	}

	return r, nil
}
