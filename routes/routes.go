package routes

import (
	"time"

	"farmify-api/config"
	"farmify-api/controllers"
	"farmify-api/middleware"
	"farmify-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://*.vercel.app"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService) {
	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, cfg.TokenTTL, emailService)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	adminController := controllers.NewAdminController(db)

	authRequired := middleware.AuthMiddleware(db, cfg.JWTSecret)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Farmify API Server",
			"status":  "running",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authRequired, authController.Me)

		// Admin user management
		admin := auth.Group("/admin", authRequired, middleware.AdminMiddleware())
		{
			admin.GET("/users", adminController.ListUsers)
			admin.DELETE("/users/:id", adminController.DeleteUser)
		}
	}

	// Post routes; the feed and comment listings are public
	posts := api.Group("/posts")
	{
		posts.GET("", postController.GetPosts)
		posts.GET("/:id", postController.GetPost)
		posts.GET("/:id/comments", postController.GetComments)

		posts.POST("", authRequired, postController.CreatePost)
		posts.PUT("/:id", authRequired, postController.UpdatePost)
		posts.DELETE("/:id", authRequired, postController.DeletePost)
		posts.PUT("/:id/like", authRequired, postController.ToggleLike)
		posts.POST("/:id/comments", authRequired, postController.CreateComment)
	}

	// User routes
	users := api.Group("/users")
	{
		users.PUT("/profile", authRequired, userController.UpdateProfile)
		users.GET("/:id/followers", userController.GetFollowers)
		users.GET("/:id/following", userController.GetFollowing)
		users.POST("/:id/follow", authRequired, userController.FollowUser)
		users.DELETE("/:id/follow", authRequired, userController.UnfollowUser)
		users.GET("/:id", userController.GetUser)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "Route not found"})
	})
}
