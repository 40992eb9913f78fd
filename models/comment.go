package models

import (
	"time"
)

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;index"`
	AuthorID  string    `json:"author_id" gorm:"not null;size:191;index"`
	Content   string    `json:"content" gorm:"not null;size:1000"`
	CreatedAt time.Time `json:"created_at"`

	Post   Post `json:"-" gorm:"foreignKey:PostID"`
	Author User `json:"-" gorm:"foreignKey:AuthorID"`
}

// CommentAuthor is the subset of author fields exposed on comments
type CommentAuthor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// CommentResponse is a comment with its author expanded
type CommentResponse struct {
	ID        string        `json:"id"`
	PostID    string        `json:"post_id"`
	Author    CommentAuthor `json:"author"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

// Response converts a comment (with Author preloaded) into its API shape
func (cm *Comment) Response() CommentResponse {
	return CommentResponse{
		ID:     cm.ID,
		PostID: cm.PostID,
		Author: CommentAuthor{
			ID:     cm.Author.ID,
			Name:   cm.Author.Name,
			Email:  cm.Author.Email,
			Avatar: cm.Author.Avatar,
		},
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
	}
}
