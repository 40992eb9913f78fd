package controllers

import (
	"net/http"

	"farmify-api/models"
	"farmify-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	db *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// ListUsers returns every account. Password hashes never serialize.
func (adc *AdminController) ListUsers(c *gin.Context) {
	var users []models.User
	if err := adc.db.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// DeleteUser removes a non-admin account. Administrator accounts cannot be
// deleted through this surface; the restriction is enforced here, not just
// hidden in the dashboard UI. Posts and comments are intentionally left in
// place.
func (adc *AdminController) DeleteUser(c *gin.Context) {
	targetUserID := c.Param("id")

	var target models.User
	if err := adc.db.First(&target, "id = ?", targetUserID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	if target.IsAdmin {
		utils.SendError(c, http.StatusForbidden, "Admin accounts cannot be deleted")
		return
	}

	if err := adc.db.Delete(&target).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendMessage(c, "User deleted successfully")
}
