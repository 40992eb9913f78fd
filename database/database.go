package database

import (
	"fmt"
	"log"

	"farmify-api/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Feed pagination reads posts newest-first per author
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts(author_id, created_at DESC)").Error; err != nil {
		log.Printf("Warning: could not create index for posts: %v", err)
	}

	// Comment listings are keyed by post, newest-first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at DESC)").Error; err != nil {
		log.Printf("Warning: could not create index for comments: %v", err)
	}

	return nil
}

// SeedAdmin ensures the administrator account exists. An existing row with the
// admin email is upgraded to admin rather than recreated.
func SeedAdmin(db *gorm.DB, email, password string) error {
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		if !existing.IsAdmin {
			if err := db.Model(&existing).Update("is_admin", true).Error; err != nil {
				return fmt.Errorf("failed to upgrade user to admin: %w", err)
			}
			log.Printf("Upgraded %s to admin", email)
		}
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:          uuid.New().String(),
		Name:        "Admin",
		Email:       email,
		Password:    string(hashed),
		Location:    "India",
		IsAdmin:     true,
		Preferences: models.DefaultPreferences(),
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Admin user created: %s", email)
	return nil
}
