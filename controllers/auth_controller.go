package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"farmify-api/middleware"
	"farmify-api/models"
	"farmify-api/services"
	"farmify-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	db           *gorm.DB
	jwtSecret    string
	tokenTTL     time.Duration
	emailService *services.EmailService
}

func NewAuthController(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, emailService *services.EmailService) *AuthController {
	return &AuthController{
		db:           db,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		emailService: emailService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string                 `json:"token"`
	User  models.ProfileResponse `json:"user"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []utils.FieldError
	if !utils.IsValidName(req.Name) {
		errs = append(errs, utils.FieldError{Field: "name", Message: "Name is required and cannot be more than 50 characters"})
	}
	if !utils.IsValidEmail(req.Email) {
		errs = append(errs, utils.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if !utils.IsValidPassword(req.Password) {
		errs = append(errs, utils.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if len(errs) > 0 {
		utils.SendValidationErrors(c, errs)
		return
	}

	email := utils.NormalizeEmail(req.Email)

	// Check if user already exists
	var existingUser models.User
	if err := ac.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "Email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	user := models.User{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       email,
		Password:    string(hashedPassword),
		Location:    req.Location,
		Preferences: models.DefaultPreferences(),
	}

	if err := ac.db.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the pre-check and land on
		// the unique email index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.SendError(c, http.StatusConflict, "Email already registered")
			return
		}
		utils.SendServerError(c, err)
		return
	}

	token, err := ac.generateJWT(&user)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	// Welcome email is best-effort and must never fail registration
	if ac.emailService != nil && user.Preferences.EmailNotifications {
		go func(email, name string) {
			if err := ac.emailService.SendWelcomeEmail(email, name); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", email, err)
			}
		}(user.Email, user.Name)
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  user.Profile(),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Unknown email and wrong password answer identically
	var user models.User
	if err := ac.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := ac.generateJWT(&user)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  user.Profile(),
	})
}

// Me returns the authenticated user, resolved fresh by the auth middleware
func (ac *AuthController) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.SendError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}

func (ac *AuthController) generateJWT(user *models.User) (string, error) {
	claims := middleware.Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ac.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}
