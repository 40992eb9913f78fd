package models

import (
	"time"
)

type User struct {
	ID             string      `json:"id" gorm:"primaryKey;size:191"`
	Name           string      `json:"name" gorm:"not null;size:50"`
	Email          string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password       string      `json:"-" gorm:"not null;size:255"`
	Location       string      `json:"location" gorm:"size:255"`
	Bio            string      `json:"bio" gorm:"size:200"`
	Avatar         string      `json:"avatar" gorm:"size:500"`
	IsAdmin        bool        `json:"is_admin" gorm:"default:false"`
	FollowersCount int         `json:"followers_count" gorm:"default:0"`
	FollowingCount int         `json:"following_count" gorm:"default:0"`
	PostsCount     int         `json:"posts_count" gorm:"default:0"`
	Preferences    Preferences `json:"preferences" gorm:"type:json"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Relationships
	Posts    []Post    `json:"-" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"-" gorm:"foreignKey:AuthorID"`
}

type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_following"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_following"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower" gorm:"foreignKey:FollowerID"`
	Following User `json:"following" gorm:"foreignKey:FollowingID"`
}

// PublicProfile is the outward-facing view of a user: no password hash, no
// preferences, follow lists collapsed to counts
type PublicProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	Avatar     string `json:"avatar"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	PostsCount int    `json:"posts_count"`
}

// PublicProfile returns the sanitized view of the user
func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Location:   u.Location,
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		Followers:  u.FollowersCount,
		Following:  u.FollowingCount,
		PostsCount: u.PostsCount,
	}
}

// ProfileResponse is the self view of a user, preferences included
type ProfileResponse struct {
	PublicProfile
	IsAdmin     bool        `json:"is_admin"`
	Preferences Preferences `json:"preferences"`
}

// Profile returns the account owner's view of the user
func (u *User) Profile() ProfileResponse {
	return ProfileResponse{
		PublicProfile: u.PublicProfile(),
		IsAdmin:       u.IsAdmin,
		Preferences:   u.Preferences,
	}
}
