package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"farmify-api/middleware"
	"farmify-api/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed opening in-memory sqlite database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.Follow{},
	)
	require.NoError(t, err, "failed automigrating models")

	return db
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authController := NewAuthController(db, testJWTSecret, time.Hour, nil)
	userController := NewUserController(db)
	postController := NewPostController(db)
	adminController := NewAdminController(db)

	authRequired := middleware.AuthMiddleware(db, testJWTSecret)

	r := gin.New()

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.GET("/me", authRequired, authController.Me)

	admin := auth.Group("/admin", authRequired, middleware.AdminMiddleware())
	admin.GET("/users", adminController.ListUsers)
	admin.DELETE("/users/:id", adminController.DeleteUser)

	posts := api.Group("/posts")
	posts.GET("", postController.GetPosts)
	posts.GET("/:id", postController.GetPost)
	posts.GET("/:id/comments", postController.GetComments)
	posts.POST("", authRequired, postController.CreatePost)
	posts.PUT("/:id", authRequired, postController.UpdatePost)
	posts.DELETE("/:id", authRequired, postController.DeletePost)
	posts.PUT("/:id/like", authRequired, postController.ToggleLike)
	posts.POST("/:id/comments", authRequired, postController.CreateComment)

	users := api.Group("/users")
	users.PUT("/profile", authRequired, userController.UpdateProfile)
	users.GET("/:id/followers", userController.GetFollowers)
	users.GET("/:id/following", userController.GetFollowing)
	users.POST("/:id/follow", authRequired, userController.FollowUser)
	users.DELETE("/:id/follow", authRequired, userController.UnfollowUser)
	users.GET("/:id", userController.GetUser)

	return r
}

// createTestUser inserts a user directly and returns it with a valid token
func createTestUser(t *testing.T, db *gorm.DB, name, email string, isAdmin bool) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		Password:    string(hashed),
		IsAdmin:     isAdmin,
		Preferences: models.DefaultPreferences(),
	}
	require.NoError(t, db.Create(&user).Error)

	ac := NewAuthController(db, testJWTSecret, time.Hour, nil)
	token, err := ac.generateJWT(&user)
	require.NoError(t, err)

	return user, token
}

func performRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
