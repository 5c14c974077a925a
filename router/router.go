package router

import (
	"log/slog"
	"net/http"
	"time"

	"daily/api"
	"daily/config"
	_ "daily/docs"
	"daily/middleware"
	"daily/models"
	"daily/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps 路由依赖
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *slog.Logger
	// Mailer 为 nil 时使用基于 SMTP 的邮件服务
	Mailer service.Mailer
	// Storage 为 nil 时上传接口返回 503
	Storage *service.UploadService
	// Registry 为 nil 时新建，并注册 Go 运行时与进程指标
	Registry *prometheus.Registry
}

// resources 在 GET /api 中列出的资源
var resources = []string{"bills", "todos", "notes", "foods", "friends", "diaries", "appearances"}

// SetupRouter 设置路由
func SetupRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger

	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)
	api.RegisterValidators()

	if deps.Mailer == nil {
		deps.Mailer = service.NewEmailService(cfg.Email)
	}
	if deps.Storage == nil {
		deps.Storage = &service.UploadService{}
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics := middleware.NewMetrics(deps.Registry)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.SecurityHeaders(middleware.DefaultSecurityHeaders()),
		middleware.CORS(cfg.CORS, cfg.Server.Mode),
		metrics.Middleware(),
		middleware.ErrorHandler(cfg.Server.Mode, log),
	)
	r.NoRoute(middleware.NotFound())

	// 运维接口
	r.GET("/health", healthHandler(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 服务
	users := service.NewUserService(deps.DB)
	tokens := middleware.NewTokenManager(cfg.JWT)
	resets := service.NewPasswordResetService(deps.DB, deps.Mailer, cfg.Server.BaseURL, log)

	// 处理器
	authHandler := api.NewAuthHandler(users, tokens, cfg.IsRelease())
	resetHandler := api.NewPasswordResetHandler(resets)
	adminHandler := api.NewAdminHandler(users)
	uploadHandler := api.NewUploadHandler(deps.Storage)
	billHandler := api.NewBillHandler(service.NewBillService(deps.DB))
	todoHandler := api.NewTodoHandler(service.NewTodoService(deps.DB))
	noteHandler := api.NewNoteHandler(service.NewNoteService(deps.DB))
	foodHandler := api.NewFoodHandler(service.NewFoodService(deps.DB))
	friendHandler := api.NewFriendHandler(service.NewFriendService(deps.DB))
	diaryHandler := api.NewDiaryHandler(service.NewDiaryService(deps.DB))
	appearanceHandler := api.NewAppearanceHandler(service.NewAppearanceService(deps.DB))
	billCategories := api.NewReferenceHandler(service.NewBillCategoryService(deps.DB))
	noteTypes := api.NewReferenceHandler(service.NewNoteTypeService(deps.DB))
	foodCategories := api.NewReferenceHandler(service.NewFoodCategoryService(deps.DB))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginMax, cfg.RateLimit.LoginWindow)
	requireAuth := middleware.Auth(tokens, users)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	v := r.Group("/api")
	v.Use(limiter.Middleware("请求过于频繁，请稍后再试"))
	v.GET("", middleware.OptionalAuth(tokens, users), indexHandler)

	// 认证相关路由（无需登录）
	auth := v.Group("/auth")
	{
		throttled := loginLimiter.Middleware("登录尝试过于频繁，请稍后再试")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", throttled, authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/password/request-reset", throttled, resetHandler.RequestReset)
		auth.POST("/password/reset", resetHandler.ResetPassword)

		auth.GET("/profile", requireAuth, authHandler.GetProfile)
		auth.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		auth.PUT("/password", requireAuth, authHandler.ChangePassword)
	}

	// 需要 JWT 认证的路由
	authorized := v.Group("")
	authorized.Use(requireAuth)
	{
		bills := authorized.Group("/bills")
		{
			registerReference(bills.Group("/categories"), billCategories, requireAdmin)
			bills.GET("/stats", billHandler.Stats)
			bills.GET("/export", billHandler.Export)
			registerCRUD(bills, billHandler)
		}

		todos := authorized.Group("/todos")
		{
			todos.GET("/stats", todoHandler.Stats)
			todos.PATCH("/:id/toggle", todoHandler.Toggle)
			todos.PATCH("/:id/details/:detailId/toggle", todoHandler.ToggleDetail)
			registerCRUD(todos, todoHandler)
		}

		notes := authorized.Group("/notes")
		{
			registerReference(notes.Group("/types"), noteTypes, requireAdmin)
			notes.GET("/stats", noteHandler.Stats)
			registerCRUD(notes, noteHandler)
		}

		foods := authorized.Group("/foods")
		{
			registerReference(foods.Group("/categories"), foodCategories, requireAdmin)
			foods.GET("/stats", foodHandler.Stats)
			foods.GET("/daily-nutrition", foodHandler.DailyNutrition)
			foods.GET("/nutrition-by-meal", foodHandler.NutritionByMeal)
			foods.GET("/favorites", foodHandler.Favorites)
			registerCRUD(foods, foodHandler)
		}

		friends := authorized.Group("/friends")
		{
			friends.GET("/stats", friendHandler.Stats)
			friends.GET("/birthdays", friendHandler.Birthdays)
			friends.PATCH("/:id/contact", friendHandler.TouchContact)
			friends.POST("/:id/contacts", friendHandler.AddContact)
			friends.DELETE("/:id/contacts/:contactId", friendHandler.RemoveContact)
			registerCRUD(friends, friendHandler)
		}

		diaries := authorized.Group("/diaries")
		{
			diaries.GET("/stats", diaryHandler.Stats)
			registerCRUD(diaries, diaryHandler)
		}

		appearances := authorized.Group("/appearances")
		{
			appearances.GET("/stats", appearanceHandler.Stats)
			registerCRUD(appearances, appearanceHandler)
		}

		authorized.POST("/uploads/presign", uploadHandler.Presign)

		admin := authorized.Group("/admin", requireAdmin)
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.SetRole)
			admin.PUT("/users/:id/status", adminHandler.SetStatus)
		}
	}

	return r
}

// crudHandler 资源处理器的基本操作
type crudHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerCRUD(g *gin.RouterGroup, h crudHandler) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// referenceHandler 类别/类型处理器
type referenceHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Deactivate(c *gin.Context)
}

// registerReference 任何登录用户可以创建类别，修改与停用需要管理员
func registerReference(g *gin.RouterGroup, h referenceHandler, requireAdmin gin.HandlerFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", requireAdmin, h.Update)
	g.DELETE("/:id", requireAdmin, h.Deactivate)
}

// healthHandler 健康检查，数据库不可用时返回 503
// @Summary 健康检查
// @Tags 运维
// @Produce json
// @Success 200 {object} api.Response "服务正常"
// @Failure 503 {object} api.ErrorResponse "数据库不可用"
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "数据库不可用"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "ok",
			"data":    gin.H{"time": time.Now().Format(time.RFC3339)},
		})
	}
}

// indexHandler 接口索引，携带有效令牌时附带当前用户名
// @Summary 接口索引
// @Tags 运维
// @Produce json
// @Success 200 {object} api.Response "资源列表"
// @Router /api [get]
func indexHandler(c *gin.Context) {
	links := make(gin.H, len(resources))
	for _, name := range resources {
		links[name] = "/api/" + name
	}
	data := gin.H{
		"name":      "daily",
		"version":   "1.0.0",
		"resources": links,
		"docs":      "/swagger/index.html",
	}
	if user := middleware.CurrentUser(c); user != nil {
		data["user"] = user.Username
	}
	api.Success(c, data)
}
