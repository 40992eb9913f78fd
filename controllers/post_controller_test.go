package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"farmify-api/models"
	"farmify-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	user, token := createTestUser(t, db, "A", "a@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", token, gin.H{
		"content":  "hello",
		"tags":     []string{" wheat ", "harvest", ""},
		"category": "tips",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.PostResponse
	decodeBody(t, w, &post)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, "tips", post.Category)
	assert.Equal(t, models.StringSlice{"wheat", "harvest"}, post.Tags)
	assert.Equal(t, user.ID, post.Author.ID)
	assert.Equal(t, user.Email, post.Author.Email)

	// Author's denormalized counter moved with the insert
	var author models.User
	require.NoError(t, db.First(&author, "id = ?", user.ID).Error)
	assert.Equal(t, 1, author.PostsCount)
}

func TestCreatePostValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "A", "a@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", token, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/posts", token, gin.H{
		"content": strings.Repeat("x", 1001),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/posts", token, gin.H{
		"content": "ok", "category": "gossip",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/posts", "", gin.H{"content": "ok"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeletePostRestoresAuthorCount(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	user, token := createTestUser(t, db, "A", "a@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", token, gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	var post models.PostResponse
	decodeBody(t, w, &post)

	var author models.User
	require.NoError(t, db.First(&author, "id = ?", user.ID).Error)
	require.Equal(t, 1, author.PostsCount)

	w = performRequest(r, http.MethodDelete, "/api/posts/"+post.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&author, "id = ?", user.ID).Error)
	assert.Equal(t, 0, author.PostsCount)

	// The counter floor stays at zero even when already drained
	other := models.Post{ID: uuid.New().String(), AuthorID: user.ID, Content: "again"}
	require.NoError(t, db.Create(&other).Error)

	w = performRequest(r, http.MethodDelete, "/api/posts/"+other.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&author, "id = ?", user.ID).Error)
	assert.Equal(t, 0, author.PostsCount)
}

func TestUpdatePostAuthorization(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, authorToken := createTestUser(t, db, "A", "a@x.com", false)
	_, otherToken := createTestUser(t, db, "B", "b@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", authorToken, gin.H{"content": "original"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.PostResponse
	decodeBody(t, w, &post)

	// Non-author cannot edit and the post stays unchanged
	w = performRequest(r, http.MethodPut, "/api/posts/"+post.ID, otherToken, gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "original", stored.Content)

	// Non-author cannot delete either
	w = performRequest(r, http.MethodDelete, "/api/posts/"+post.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(r, http.MethodPut, "/api/posts/"+uuid.New().String(), authorToken, gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePostPartialFields(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, token := createTestUser(t, db, "A", "a@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", token, gin.H{
		"content":  "original",
		"tags":     []string{"wheat"},
		"category": "tips",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.PostResponse
	decodeBody(t, w, &post)

	// Content is required on update; omitted tags/category stay untouched
	w = performRequest(r, http.MethodPut, "/api/posts/"+post.ID, token, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.PostResponse
	decodeBody(t, w, &updated)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, models.StringSlice{"wheat"}, updated.Tags)
	assert.Equal(t, "tips", updated.Category)

	// Missing content fails validation
	w = performRequest(r, http.MethodPut, "/api/posts/"+post.ID, token, gin.H{"tags": []string{"x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLike(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, authorToken := createTestUser(t, db, "A", "a@x.com", false)
	_, otherToken := createTestUser(t, db, "B", "b@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", authorToken, gin.H{"content": "likeable"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.PostResponse
	decodeBody(t, w, &post)

	like := func(token string) (bool, int) {
		w := performRequest(r, http.MethodPut, "/api/posts/"+post.ID+"/like", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Liked      bool `json:"liked"`
			LikesCount int  `json:"likesCount"`
		}
		decodeBody(t, w, &resp)
		return resp.Liked, resp.LikesCount
	}

	liked, count := like(otherToken)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	liked, count = like(authorToken)
	assert.True(t, liked)
	assert.Equal(t, 2, count)

	// Second toggle by the same user undoes the first
	liked, count = like(otherToken)
	assert.False(t, liked)
	assert.Equal(t, 1, count)

	// Counter always matches the membership rows
	var rows int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&rows)
	assert.EqualValues(t, count, rows)

	w = performRequest(r, http.MethodPut, "/api/posts/"+uuid.New().String()+"/like", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleLikeNeverDropsCountBelowMembership(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	author, _ := createTestUser(t, db, "A", "a@x.com", false)
	liker, likerToken := createTestUser(t, db, "B", "b@x.com", false)

	// A membership row whose increment was lost: the counter already reads zero
	post := models.Post{
		ID:       uuid.New().String(),
		AuthorID: author.ID,
		Content:  "drifted",
		Category: models.CategoryGeneral,
	}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.PostLike{PostID: post.ID, UserID: liker.ID}).Error)

	w := performRequest(r, http.MethodPut, "/api/posts/"+post.ID+"/like", likerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Liked      bool `json:"liked"`
		LikesCount int  `json:"likesCount"`
	}
	decodeBody(t, w, &resp)
	assert.False(t, resp.Liked)
	assert.Equal(t, 0, resp.LikesCount)

	var rows int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&rows)
	assert.Zero(t, rows)
}

func TestDuplicateLikeRowIsDuplicatedKey(t *testing.T) {
	db := setupTestDB(t)

	author, _ := createTestUser(t, db, "A", "a@x.com", false)

	post := models.Post{
		ID:       uuid.New().String(),
		AuthorID: author.ID,
		Content:  "once",
		Category: models.CategoryGeneral,
	}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.PostLike{PostID: post.ID, UserID: author.ID}).Error)

	// The toggle handler relies on this error class to absorb racing likes
	err := db.Create(&models.PostLike{PostID: post.ID, UserID: author.ID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFeedPagination(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	user, _ := createTestUser(t, db, "A", "a@x.com", false)

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 25; i++ {
		post := models.Post{
			ID:        uuid.New().String(),
			AuthorID:  user.ID,
			Content:   fmt.Sprintf("post-%d", i),
			Category:  models.CategoryGeneral,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&post).Error)
	}

	w := performRequest(r, http.MethodGet, "/api/posts?page=2&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed models.FeedResponse
	decodeBody(t, w, &feed)
	require.Len(t, feed.Posts, 10)
	assert.Equal(t, 2, feed.CurrentPage)
	assert.Equal(t, 3, feed.TotalPages)
	assert.EqualValues(t, 25, feed.TotalPosts)

	// Newest first: page 2 holds items 15 down to 6
	assert.Equal(t, "post-15", feed.Posts[0].Content)
	assert.Equal(t, "post-6", feed.Posts[9].Content)
	assert.Equal(t, user.Email, feed.Posts[0].Author.Email)

	// Non-numeric paging parameters fall back to defaults
	w = performRequest(r, http.MethodGet, "/api/posts?page=abc&limit=xyz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &feed)
	assert.Equal(t, 1, feed.CurrentPage)
	assert.Len(t, feed.Posts, 10)
	assert.Equal(t, "post-25", feed.Posts[0].Content)
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, authorToken := createTestUser(t, db, "A", "a@x.com", false)
	commenter, commenterToken := createTestUser(t, db, "B", "b@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", authorToken, gin.H{"content": "discuss"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.PostResponse
	decodeBody(t, w, &post)

	w = performRequest(r, http.MethodPost, "/api/posts/"+post.ID+"/comments", commenterToken, gin.H{"content": "first"})
	require.Equal(t, http.StatusCreated, w.Code)

	var comment models.CommentResponse
	decodeBody(t, w, &comment)
	assert.Equal(t, commenter.ID, comment.Author.ID)
	assert.Equal(t, "first", comment.Content)

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, 1, stored.CommentsCount)

	// A later comment lists first
	second := models.Comment{
		ID:        uuid.New().String(),
		PostID:    post.ID,
		AuthorID:  commenter.ID,
		Content:   "second",
		CreatedAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, db.Create(&second).Error)

	w = performRequest(r, http.MethodGet, "/api/posts/"+post.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var comments []models.CommentResponse
	decodeBody(t, w, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "first", comments[1].Content)

	// Commenting on a missing post is a 404, empty content a 400
	w = performRequest(r, http.MethodPost, "/api/posts/"+uuid.New().String()+"/comments", commenterToken, gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodPost, "/api/posts/"+post.ID+"/comments", commenterToken, gin.H{"content": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Over-length comments are rejected and the message names the cap
	w = performRequest(r, http.MethodPost, "/api/posts/"+post.ID+"/comments", commenterToken, gin.H{"content": strings.Repeat("c", 1001)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var verr utils.ValidationErrorResponse
	decodeBody(t, w, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Contains(t, verr.Errors[0].Message, "1000")
}

func TestDeletePostRemovesDependents(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)

	_, authorToken := createTestUser(t, db, "A", "a@x.com", false)
	_, otherToken := createTestUser(t, db, "B", "b@x.com", false)

	w := performRequest(r, http.MethodPost, "/api/posts", authorToken, gin.H{"content": "doomed"})
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.PostResponse
	decodeBody(t, w, &post)

	performRequest(r, http.MethodPut, "/api/posts/"+post.ID+"/like", otherToken, nil)
	performRequest(r, http.MethodPost, "/api/posts/"+post.ID+"/comments", otherToken, gin.H{"content": "bye"})

	w = performRequest(r, http.MethodDelete, "/api/posts/"+post.ID, authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var likes, comments int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
}
