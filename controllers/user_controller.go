package controllers

import (
	"net/http"

	"farmify-api/middleware"
	"farmify-api/models"
	"farmify-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// GetUser returns a public profile: no password hash, no preferences,
// follow lists as counts only
func (uc *UserController) GetUser(c *gin.Context) {
	var user models.User
	if err := uc.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, user.PublicProfile())
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Bio         *string `json:"bio"`
	Preferences *struct {
		EmailNotifications *bool   `json:"email_notifications"`
		WeatherAlerts      *bool   `json:"weather_alerts"`
		Language           *string `json:"language"`
	} `json:"preferences"`
}

// UpdateProfile applies a partial update to the caller's own record. Omitted
// fields stay untouched; supplied preference keys are merged, not replaced.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.SendError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []utils.FieldError
	if req.Name != nil && !utils.IsValidName(*req.Name) {
		errs = append(errs, utils.FieldError{Field: "name", Message: "Name is required and cannot be more than 50 characters"})
	}
	if req.Bio != nil && !utils.IsValidBio(*req.Bio) {
		errs = append(errs, utils.FieldError{Field: "bio", Message: "Bio cannot be more than 200 characters"})
	}
	if req.Preferences != nil && req.Preferences.Language != nil && !utils.IsValidLanguage(*req.Preferences.Language) {
		errs = append(errs, utils.FieldError{Field: "preferences.language", Message: "Unsupported language code"})
	}
	if len(errs) > 0 {
		utils.SendValidationErrors(c, errs)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Preferences != nil {
		merged := user.Preferences
		if req.Preferences.EmailNotifications != nil {
			merged.EmailNotifications = *req.Preferences.EmailNotifications
		}
		if req.Preferences.WeatherAlerts != nil {
			merged.WeatherAlerts = *req.Preferences.WeatherAlerts
		}
		if req.Preferences.Language != nil {
			merged.Language = *req.Preferences.Language
		}
		updates["preferences"] = merged
	}

	if len(updates) > 0 {
		if err := uc.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			utils.SendServerError(c, err)
			return
		}
	}

	var updated models.User
	if err := uc.db.First(&updated, "id = ?", user.ID).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated.Profile())
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("id")

	if userID == targetUserID {
		utils.SendError(c, http.StatusBadRequest, "Cannot follow yourself")
		return
	}

	var target models.User
	if err := uc.db.First(&target, "id = ?", targetUserID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	var existingFollow models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, targetUserID).First(&existingFollow).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "Already following this user")
		return
	}

	err := uc.db.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{
			FollowerID:  userID,
			FollowingID: targetUserID,
		}
		if err := tx.Create(&follow).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("following_count", gorm.Expr("following_count + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", targetUserID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + ?", 1)).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendMessage(c, "Successfully followed user")
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("id")

	var follow models.Follow
	if err := uc.db.Where("follower_id = ? AND following_id = ?", userID, targetUserID).First(&follow).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Follow relationship not found")
		return
	}

	err := uc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&follow).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", targetUserID).
			UpdateColumn("followers_count", gorm.Expr("CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendMessage(c, "Successfully unfollowed user")
}

// GetFollowers lists who follows the given user, as public profiles
func (uc *UserController) GetFollowers(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	var follows []models.Follow
	if err := uc.db.Preload("Follower").Where("following_id = ?", userID).Find(&follows).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	followers := make([]models.PublicProfile, 0, len(follows))
	for i := range follows {
		followers = append(followers, follows[i].Follower.PublicProfile())
	}

	c.JSON(http.StatusOK, followers)
}

// GetFollowing lists who the given user follows, as public profiles
func (uc *UserController) GetFollowing(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	var follows []models.Follow
	if err := uc.db.Preload("Following").Where("follower_id = ?", userID).Find(&follows).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	following := make([]models.PublicProfile, 0, len(follows))
	for i := range follows {
		following = append(following, follows[i].Following.PublicProfile())
	}

	c.JSON(http.StatusOK, following)
}
