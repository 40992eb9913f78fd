package models

import (
	"time"
)

// Post categories
const (
	CategoryGeneral      = "general"
	CategoryTips         = "tips"
	CategoryQuestion     = "question"
	CategorySuccessStory = "success-story"
	CategoryMarketUpdate = "market-update"
	CategoryWeather      = "weather"
)

// PostCategories lists every accepted post category
var PostCategories = []string{
	CategoryGeneral,
	CategoryTips,
	CategoryQuestion,
	CategorySuccessStory,
	CategoryMarketUpdate,
	CategoryWeather,
}

// IsValidCategory reports whether category is one of the accepted values
func IsValidCategory(category string) bool {
	for _, c := range PostCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Post struct {
	ID            string      `json:"id" gorm:"primaryKey;size:191"`
	AuthorID      string      `json:"author_id" gorm:"not null;size:191;index"`
	Content       string      `json:"content" gorm:"not null;size:1000"`
	Images        StringSlice `json:"images" gorm:"type:json"`
	LikesCount    int         `json:"likes_count" gorm:"default:0"`
	CommentsCount int         `json:"comments_count" gorm:"default:0"`
	SharesCount   int         `json:"shares_count" gorm:"default:0"`
	Tags          StringSlice `json:"tags" gorm:"type:json"`
	Category      string      `json:"category" gorm:"default:'general';size:50"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Author   User       `json:"-" gorm:"foreignKey:AuthorID"`
	Likes    []PostLike `json:"-" gorm:"foreignKey:PostID"`
	Comments []Comment  `json:"-" gorm:"foreignKey:PostID"`
}

type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_post_user"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_post_likes_post_user"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// PostAuthor is the subset of author fields exposed on feed items
type PostAuthor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`
}

// PostResponse is a post with its author expanded and likes flattened to user IDs
type PostResponse struct {
	ID            string      `json:"id"`
	Author        PostAuthor  `json:"author"`
	Content       string      `json:"content"`
	Images        StringSlice `json:"images"`
	Likes         []string    `json:"likes"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	SharesCount   int         `json:"shares_count"`
	Tags          StringSlice `json:"tags"`
	Category      string      `json:"category"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Response converts a post (with Author and Likes preloaded) into its API shape
func (p *Post) Response() PostResponse {
	likes := make([]string, 0, len(p.Likes))
	for _, like := range p.Likes {
		likes = append(likes, like.UserID)
	}

	return PostResponse{
		ID: p.ID,
		Author: PostAuthor{
			ID:       p.Author.ID,
			Name:     p.Author.Name,
			Email:    p.Author.Email,
			Location: p.Author.Location,
			Avatar:   p.Author.Avatar,
		},
		Content:       p.Content,
		Images:        p.Images,
		Likes:         likes,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		SharesCount:   p.SharesCount,
		Tags:          p.Tags,
		Category:      p.Category,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FeedResponse represents the paginated feed with pagination metadata
type FeedResponse struct {
	Posts       []PostResponse `json:"posts"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalPosts  int64          `json:"totalPosts"`
}
