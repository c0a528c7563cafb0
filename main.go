// main.go
package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"go-sched-log/config"
	"go-sched-log/controllers"
	"go-sched-log/logger"
	"go-sched-log/middleware"
	"go-sched-log/services"
	"go-sched-log/store"
	"go-sched-log/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.SetLogLevel(cfg.Env)
	websocket.EnableMetrics(cfg.MetricsEnabled)
	controllers.SetConfig(cfg.ApplicationURL)

	// build the stores once and verify both files are readable before
	// serving anything: a corrupt store halts startup rather than
	// quietly serving an empty collection
	eventStore := store.NewEventStore(cfg.EventsFile)
	userStore := store.NewUserStore(cfg.UsersFile)
	if _, err := eventStore.Load(); err != nil {
		log.Fatalf("event store unusable: %v", err)
	}
	if _, err := userStore.Load(); err != nil {
		log.Fatalf("user store unusable: %v", err)
	}

	eventService := services.NewEventService(eventStore)
	userService := services.NewUserService(userStore)

	router := setupRouter(cfg, eventService, userService)
	router.LoadHTMLGlob("templates/*.html")

	// fan-out pump for the alert push feed
	go websocket.HandleMessages()

	// server-side due-soon recomputation on the poll interval
	notifier := websocket.NewNotifier(eventService, cfg.PollInterval)
	go notifier.Run()

	logger.Info.Printf("Listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// setupRouter wires middleware, session handling and all routes. Split
// out of main so tests can build the same router against fake stores.
func setupRouter(cfg *config.Config, eventService *services.EventService, userService *services.UserService) *gin.Engine {
	router := gin.Default()

	// session cookies signed with the mandatory SECRET_KEY
	sessionStore := cookie.NewStore([]byte(cfg.SecretKey))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("schedlog_session", sessionStore))

	authController := controllers.NewAuthController(userService)
	eventController := controllers.NewEventController(eventService)
	userController := controllers.NewUserController(userService)
	loginLimiter := middleware.NewLoginLimiter(1, 5)

	// public routes
	router.GET("/health", controllers.Health)
	router.GET("/login", authController.ShowLoginPage)
	router.POST("/login", loginLimiter.Middleware(), authController.PerformLogin)
	router.GET("/logout", authController.Logout)

	// protected routes
	protected := router.Group("/", middleware.AuthRequired)
	{
		protected.GET("/", eventController.Dashboard)
		protected.GET("/events", eventController.ListEvents)
		protected.GET("/events/add", eventController.ShowAddEvent)
		protected.POST("/events/add", eventController.AddEvent)
		protected.GET("/events/edit/:id", eventController.ShowEditEvent)
		protected.POST("/events/edit/:id", eventController.UpdateEvent)
		protected.POST("/events/delete/:id", eventController.DeleteEvent)
		protected.GET("/export", eventController.ExportCSV)
		protected.GET("/api/check-alerts", eventController.CheckAlerts)
		protected.GET("/alerts/ws", eventController.AlertFeed)
		protected.GET("/qrcode", controllers.GetQRCode)
	}

	// admin-only user management
	admin := router.Group("/users", middleware.AuthRequired, middleware.AdminRequired())
	{
		admin.GET("", userController.ManageUsers)
		admin.POST("/add", userController.AddUser)
		admin.POST("/delete", userController.DeleteUser)
	}

	return router
}
