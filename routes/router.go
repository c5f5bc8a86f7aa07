package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/config"
	"github.com/emmiamia/nourishsteps/controllers"
	"github.com/emmiamia/nourishsteps/middleware"
	"github.com/emmiamia/nourishsteps/services"
	"github.com/emmiamia/nourishsteps/storage"
	"github.com/emmiamia/nourishsteps/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, clock services.Clock) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		utils.Sugar.Warnf("custom validators not registered: %v", err)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", utils.RequestIDKey},
		ExposeHeaders: []string{"Content-Length", utils.RequestIDKey},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	checkinRepo := storage.NewCheckInRepository(db)
	mealRepo := storage.NewMealRepository(db)
	summaries := services.NewSummaryService(checkinRepo, mealRepo, clock)

	checkInController := controllers.NewCheckInController(db, clock)
	mealController := controllers.NewMealController(db, clock)
	summaryController := controllers.NewSummaryController(summaries, cfg.CacheTTL())
	resourceController := controllers.NewResourceController(db)

	writeLimit := middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware()

	api := r.Group("/api")
	api.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"ok": true})
	})

	checkins := api.Group("/checkins")
	checkins.GET("", checkInController.List)
	checkins.GET("/month", summaryController.CheckInMonth)
	checkins.GET("/:id", checkInController.Get)
	checkins.POST("", writeLimit, checkInController.Create)
	checkins.PATCH("/:id", writeLimit, checkInController.Update)
	checkins.DELETE("/:id", writeLimit, checkInController.Delete)
	api.GET("/summary7", summaryController.CheckInSummary7)

	meals := api.Group("/meals")
	meals.GET("", mealController.List)
	meals.GET("/summary7", summaryController.MealSummary7)
	meals.GET("/month", summaryController.MealMonth)
	meals.GET("/:id", mealController.Get)
	meals.POST("", writeLimit, mealController.Create)
	meals.PATCH("/:id", writeLimit, mealController.Update)
	meals.DELETE("/:id", writeLimit, mealController.Delete)

	api.GET("/days/:date", summaryController.Day)
	api.GET("/resources", resourceController.List)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "not found")
	})

	return r
}
