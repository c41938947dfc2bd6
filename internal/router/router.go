package router

import (
	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	adminhandlers "github.com/paveworks/paveworks-api/internal/http/handlers/admin"
	publichandlers "github.com/paveworks/paveworks-api/internal/http/handlers/public"
	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/provider"
	"github.com/paveworks/paveworks-api/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware, rate-limit classes and the route tree.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	limiter := c.Limiter
	rl := cfg.RateLimit

	generalRule := ratelimit.RuleFromConfig(constants.RateClassGeneral, rl.General)
	generalRule.Message = "too many requests, try again later"

	authRule := ratelimit.RuleFromConfig(constants.RateClassAuth, rl.Auth)
	authRule.Message = "too many failed attempts, try again later"
	authRule.RefundSuccess = true

	readRule := ratelimit.RuleFromConfig(constants.RateClassRead, rl.Read)
	readRule.Message = "too many requests, try again later"

	strictRule := ratelimit.RuleFromConfig(constants.RateClassStrict, rl.Strict)
	strictRule.Message = "too many submissions, try again later"

	uploadRule := ratelimit.RuleFromConfig(constants.RateClassUpload, rl.Upload)
	uploadRule.Message = "too many uploads, try again later"

	heavyRule := ratelimit.RuleFromConfig(constants.RateClassHeavy, rl.Heavy)
	heavyRule.Message = "too many requests, try again later"

	passwordRule := ratelimit.RuleFromConfig(constants.RateClassPassword, rl.Password)
	passwordRule.Message = "too many password attempts, try again later"

	read := limiter.Middleware(readRule, ratelimit.KeyByIP)
	strict := limiter.Middleware(strictRule, ratelimit.KeyByIP)
	heavy := limiter.Middleware(heavyRule, ratelimit.KeyByIP)
	password := limiter.Middleware(passwordRule, ratelimit.KeyByIP)

	// authenticated write endpoints count per user, not per address
	heavyUser := limiter.Middleware(heavyRule, ratelimit.KeyByUserOrIP)
	passwordUser := limiter.Middleware(passwordRule, ratelimit.KeyByUserOrIP)
	uploadUser := limiter.Middleware(uploadRule, ratelimit.KeyByUserOrIP)

	requireAuth := RequireAuth(c.AuthService, c.UserRepo)
	requireStaff := RequireRole(constants.RoleAdmin, constants.RoleModerator)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(limiter.SlowDown(rl.SlowDown, rl.General.WindowSeconds))
	r.Use(limiter.Middleware(generalRule, ratelimit.KeyByIP))

	// locally stored uploads
	uploadsDir := cfg.Upload.LocalDir
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	r.Static("/uploads", uploadsDir)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Middleware(authRule, ratelimit.KeyByIP), publicHandler.Register)
			auth.POST("/login", limiter.Middleware(authRule, ratelimit.KeyByIPAndJSONField("identifier")), publicHandler.Login)
			auth.POST("/refresh", limiter.Middleware(authRule, ratelimit.KeyByIP), publicHandler.Refresh)
			auth.GET("/verify-email", strict, publicHandler.VerifyEmail)
			auth.POST("/verify-email", strict, publicHandler.VerifyEmail)
			auth.POST("/resend-verification", strict, publicHandler.ResendVerification)
			auth.POST("/forgot-password", limiter.Middleware(passwordRule, ratelimit.KeyByIPAndJSONField("email")), publicHandler.ForgotPassword)
			auth.POST("/reset-password", password, publicHandler.ResetPassword)

			auth.POST("/logout", requireAuth, publicHandler.Logout)
			auth.GET("/me", requireAuth, publicHandler.Me)
			auth.PUT("/me", requireAuth, heavyUser, publicHandler.UpdateProfile)
			auth.PUT("/me/password", requireAuth, passwordUser, publicHandler.ChangePassword)
		}

		api.GET("/services", read, publicHandler.GetServices)
		api.GET("/services/:slug", read, publicHandler.GetServiceBySlug)
		api.GET("/projects", read, publicHandler.GetProjects)
		api.GET("/projects/:slug", read, publicHandler.GetProjectBySlug)
		api.GET("/blog", read, publicHandler.GetBlogPosts)
		api.GET("/blog/:slug", read, publicHandler.GetBlogPostBySlug)
		api.GET("/testimonials", read, publicHandler.GetTestimonials)
		api.POST("/testimonials", strict, publicHandler.SubmitTestimonial)
		api.POST("/contacts", strict, publicHandler.SubmitContact)
		api.POST("/quotes", strict, publicHandler.SubmitQuote)

		admin := api.Group("/admin")
		admin.Use(requireAuth, requireStaff)
		{
			admin.GET("/services", adminHandler.GetServices)
			admin.GET("/services/:id", adminHandler.GetService)
			admin.POST("/services", adminHandler.CreateService)
			admin.PUT("/services/:id", adminHandler.UpdateService)
			admin.DELETE("/services/:id", adminHandler.DeleteService)

			admin.GET("/projects", adminHandler.GetProjects)
			admin.GET("/projects/:id", adminHandler.GetProject)
			admin.POST("/projects", adminHandler.CreateProject)
			admin.PUT("/projects/:id", adminHandler.UpdateProject)
			admin.DELETE("/projects/:id", adminHandler.DeleteProject)

			admin.GET("/blog", adminHandler.GetBlogPosts)
			admin.GET("/blog/:id", adminHandler.GetBlogPost)
			admin.POST("/blog", adminHandler.CreateBlogPost)
			admin.PUT("/blog/:id", adminHandler.UpdateBlogPost)
			admin.DELETE("/blog/:id", adminHandler.DeleteBlogPost)

			admin.GET("/testimonials", adminHandler.GetTestimonials)
			admin.GET("/testimonials/:id", adminHandler.GetTestimonial)
			admin.POST("/testimonials", adminHandler.CreateTestimonial)
			admin.PUT("/testimonials/:id", adminHandler.UpdateTestimonial)
			admin.POST("/testimonials/:id/approve", adminHandler.ApproveTestimonial)
			admin.DELETE("/testimonials/:id", adminHandler.DeleteTestimonial)

			admin.GET("/contacts", adminHandler.GetContacts)
			admin.GET("/contacts/stats", heavy, adminHandler.GetContactStats)
			admin.GET("/contacts/:id", adminHandler.GetContact)
			admin.PATCH("/contacts/status", adminHandler.BulkUpdateContactStatus)
			admin.PATCH("/contacts/:id/status", adminHandler.UpdateContactStatus)
			admin.POST("/contacts/bulk-delete", adminHandler.BulkDeleteContacts)
			admin.POST("/contacts/:id/reply", adminHandler.ReplyContact)
			admin.DELETE("/contacts/:id", adminHandler.DeleteContact)

			admin.POST("/upload", uploadUser, adminHandler.UploadFile)
			admin.DELETE("/upload/:scene/:filename", adminHandler.DeleteFile)

			users := admin.Group("/users")
			users.Use(RequireRole(constants.RoleAdmin))
			{
				users.GET("", heavy, adminHandler.GetUsers)
				users.GET("/stats", heavy, adminHandler.GetUserStats)
				users.POST("", adminHandler.CreateUser)
				users.GET("/:id", adminHandler.GetUser)
				users.PUT("/:id", adminHandler.UpdateUser)
				users.DELETE("/:id", adminHandler.DeleteUser)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
