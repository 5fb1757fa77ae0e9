package router

import (
	"time"

	"fintrack/api"
	"fintrack/config"
	_ "fintrack/docs"
	"fintrack/middleware"
	"fintrack/service"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, txnStore store.TransactionStore, userStore store.UserStore) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	txnService := service.NewTransactionService(txnStore)
	reportService := service.NewReportService(txnStore)

	authHandler := api.NewAuthHandler(cfg, userStore, txnStore)
	categoryHandler := api.NewCategoryHandler(txnService)
	txnHandler := api.NewTransactionHandler(txnService, reportService)
	reportHandler := api.NewReportHandler(reportService)
	exportHandler := api.NewExportHandler(txnStore)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)

			// 类别相关
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
			}

			// 交易记录相关
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", txnHandler.Create)
				transactions.GET("", txnHandler.List)
				transactions.GET("/summary", txnHandler.Summary)
				transactions.GET("/:id", txnHandler.Get)
				transactions.PUT("/:id", txnHandler.Update)
				transactions.DELETE("/:id", txnHandler.Delete)
			}

			// 报表相关
			reports := authorized.Group("/reports")
			{
				reports.GET("/balance-sheet", reportHandler.BalanceSheet)
				reports.GET("/trends", reportHandler.Trends)
			}
			authorized.GET("/dashboard/metrics", reportHandler.Metrics)

			// 导出相关
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
