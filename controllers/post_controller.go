package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"farmify-api/models"
	"farmify-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostController struct {
	db *gorm.DB
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type CreatePostRequest struct {
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Images   []string `json:"images"`
}

type UpdatePostRequest struct {
	Content  string    `json:"content"`
	Tags     *[]string `json:"tags"`
	Category *string   `json:"category"`
	Images   *[]string `json:"images"`
}

// GetPosts returns the public feed, newest first
func (pc *PostController) GetPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	pc.db.Model(&models.Post{}).Count(&total)

	var posts []models.Post
	if err := pc.db.Preload("Author").Preload("Likes").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	responses := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, posts[i].Response())
	}

	c.JSON(http.StatusOK, models.FeedResponse{
		Posts:       responses,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalPosts:  total,
	})
}

func (pc *PostController) GetPost(c *gin.Context) {
	var post models.Post
	if err := pc.db.Preload("Author").Preload("Likes").First(&post, "id = ?", c.Param("id")).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}

	c.JSON(http.StatusOK, post.Response())
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []utils.FieldError
	if !utils.IsValidPostContent(req.Content) {
		errs = append(errs, utils.FieldError{Field: "content", Message: "Post content is required and cannot be more than 1000 characters"})
	}
	category := req.Category
	if category == "" {
		category = models.CategoryGeneral
	} else if !models.IsValidCategory(category) {
		errs = append(errs, utils.FieldError{Field: "category", Message: "Unknown post category"})
	}
	if len(errs) > 0 {
		utils.SendValidationErrors(c, errs)
		return
	}

	post := models.Post{
		ID:       uuid.New().String(),
		AuthorID: userID,
		Content:  req.Content,
		Images:   models.StringSlice(req.Images),
		Tags:     models.StringSlice(utils.TrimTags(req.Tags)),
		Category: category,
	}

	// The post row and the author's counter move together
	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", 1)).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	pc.db.Preload("Author").Preload("Likes").First(&post, "id = ?", post.ID)

	c.JSON(http.StatusCreated, post.Response())
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}

	if post.AuthorID != userID {
		utils.SendError(c, http.StatusForbidden, "Not authorized to edit this post")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []utils.FieldError
	if !utils.IsValidPostContent(req.Content) {
		errs = append(errs, utils.FieldError{Field: "content", Message: "Post content is required and cannot be more than 1000 characters"})
	}
	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		errs = append(errs, utils.FieldError{Field: "category", Message: "Unknown post category"})
	}
	if len(errs) > 0 {
		utils.SendValidationErrors(c, errs)
		return
	}

	// Content is always rewritten; the rest only when supplied
	updates := map[string]interface{}{
		"content": req.Content,
	}
	if req.Tags != nil {
		updates["tags"] = models.StringSlice(utils.TrimTags(*req.Tags))
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Images != nil {
		updates["images"] = models.StringSlice(*req.Images)
	}

	if err := pc.db.Model(&post).Updates(updates).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	pc.db.Preload("Author").Preload("Likes").First(&post, "id = ?", postID)

	c.JSON(http.StatusOK, post.Response())
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}

	if post.AuthorID != userID {
		utils.SendError(c, http.StatusForbidden, "Not authorized to delete this post")
		return
	}

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("posts_count", gorm.Expr("CASE WHEN posts_count > 0 THEN posts_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendMessage(c, "Post deleted successfully")
}

// ToggleLike adds or removes the caller's like in one transaction so the
// counter never drifts from the membership rows
func (pc *PostController) ToggleLike(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}

	var liked bool
	err := pc.db.Transaction(func(tx *gorm.DB) error {
		// Only decrement when this transaction actually removed the row; a
		// concurrent unlike may have deleted it first
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
		}

		like := models.PostLike{PostID: postID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			// A concurrent request already recorded the like; its increment stands
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	pc.db.Select("likes_count").First(&post, "id = ?", postID)

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"likesCount": post.LikesCount,
	})
}

// GetComments lists a post's comments, newest first
func (pc *PostController) GetComments(c *gin.Context) {
	postID := c.Param("id")

	var comments []models.Comment
	if err := pc.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	responses := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, comments[i].Response())
	}

	c.JSON(http.StatusOK, responses)
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func (pc *PostController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !utils.IsValidPostContent(req.Content) {
		utils.SendValidationErrors(c, []utils.FieldError{
			{Field: "content", Message: "Comment is required and cannot be more than 1000 characters"},
		})
		return
	}

	comment := models.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	}

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	pc.db.Preload("Author").First(&comment, "id = ?", comment.ID)

	c.JSON(http.StatusCreated, comment.Response())
}
