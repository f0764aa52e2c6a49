package router

import (
	"io/fs"
	"net/http"
	"time"

	"duitku/api"
	"duitku/config"
	_ "duitku/docs"
	"duitku/middleware"
	"duitku/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter menyusun seluruh rute aplikasi
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// halaman depan dari aset tertanam
	staticFS, _ := fs.Sub(web.StaticFS, ".")
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "gagal memuat halaman")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	// dokumentasi Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// autentikasi (tanpa login)
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
		}

		// rute yang butuh JWT
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// jurnal transaksi
			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// kategori
			categoryHandler := api.NewCategoryHandler()
			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			// ringkasan dashboard
			summaryHandler := api.NewSummaryHandler()
			authorized.GET("/summary", summaryHandler.Dashboard)

			// tabungan dan goal
			savingsHandler := api.NewSavingsHandler(cfg)
			savings := authorized.Group("/savings")
			{
				savings.GET("/pot", savingsHandler.GetPot)
				savings.GET("/auto-transfers", savingsHandler.ListAutoTransfers)
				savings.POST("/topups", savingsHandler.CreateTopUp)
				savings.GET("/topups", savingsHandler.ListTopUps)
				savings.DELETE("/topups/:id", savingsHandler.DeleteTopUp)

				savings.POST("/goals", savingsHandler.CreateGoal)
				savings.GET("/goals", savingsHandler.ListGoals)
				savings.POST("/goals/:id/allocate", savingsHandler.Allocate)
				savings.POST("/goals/:id/release", savingsHandler.Release)
				savings.POST("/goals/:id/archive", savingsHandler.Archive)
				savings.POST("/goals/:id/unarchive", savingsHandler.Unarchive)
				savings.DELETE("/goals/:id", savingsHandler.DeleteGoal)
			}

			// ekspor dan impor
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
				export.GET("/excel", exportHandler.ExportExcel)
			}

			importHandler := api.NewImportHandler()
			authorized.POST("/import/csv", importHandler.ImportCSV)

			// uji konfigurasi email
			emailHandler := api.NewEmailHandler(cfg)
			authorized.POST("/email/test", emailHandler.SendTest)
		}

		// template CSV boleh diunduh tanpa login
		v1.GET("/export/template", api.NewExportHandler().TemplateCSV)
	}

	// health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware middleware CORS lintas domain
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
