package jobs

import (
	"context"
	"log"
	"time"

	"farmify-api/models"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// CounterReconcileJob periodically recomputes the denormalized counters
// (posts_count per user, likes_count and comments_count per post) from their
// source-of-truth rows. Counter writes go through the normal request path in
// the same transaction as the rows they count, so drift should only appear
// after crashes or manual data edits; the job closes that gap.
type CounterReconcileJob struct {
	db      *gorm.DB
	ticker  *time.Ticker
	limiter *rate.Limiter
	done    chan bool
}

// NewCounterReconcileJob creates the job. Corrective writes are paced by the
// limiter so a large backlog never saturates the pool.
func NewCounterReconcileJob(db *gorm.DB, interval time.Duration) *CounterReconcileJob {
	return &CounterReconcileJob{
		db:      db,
		ticker:  time.NewTicker(interval),
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
		done:    make(chan bool),
	}
}

// Start begins the reconciliation loop
func (j *CounterReconcileJob) Start() {
	log.Println("Counter reconciliation job started")

	go func() {
		j.reconcile()

		for {
			select {
			case <-j.ticker.C:
				j.reconcile()
			case <-j.done:
				log.Println("Counter reconciliation job stopped")
				return
			}
		}
	}()
}

// Stop halts the reconciliation loop
func (j *CounterReconcileJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *CounterReconcileJob) reconcile() {
	fixed := j.reconcilePostCounters() + j.reconcileUserPostCounts()
	if fixed > 0 {
		log.Printf("Counter reconciliation corrected %d rows", fixed)
	}
}

func (j *CounterReconcileJob) reconcilePostCounters() int {
	var posts []models.Post
	if err := j.db.Select("id", "likes_count", "comments_count").Find(&posts).Error; err != nil {
		log.Printf("Counter reconciliation: failed to list posts: %v", err)
		return 0
	}

	fixed := 0
	for _, post := range posts {
		var likes, comments int64
		j.db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
		j.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)

		updates := map[string]interface{}{}
		if int(likes) != post.LikesCount {
			updates["likes_count"] = likes
		}
		if int(comments) != post.CommentsCount {
			updates["comments_count"] = comments
		}
		if len(updates) == 0 {
			continue
		}

		if err := j.limiter.Wait(context.Background()); err != nil {
			return fixed
		}
		if err := j.db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			log.Printf("Counter reconciliation: failed to fix post %s: %v", post.ID, err)
			continue
		}
		fixed++
	}

	return fixed
}

func (j *CounterReconcileJob) reconcileUserPostCounts() int {
	var users []models.User
	if err := j.db.Select("id", "posts_count").Find(&users).Error; err != nil {
		log.Printf("Counter reconciliation: failed to list users: %v", err)
		return 0
	}

	fixed := 0
	for _, user := range users {
		var posts int64
		j.db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&posts)

		if int(posts) == user.PostsCount {
			continue
		}

		if err := j.limiter.Wait(context.Background()); err != nil {
			return fixed
		}
		if err := j.db.Model(&models.User{}).Where("id = ?", user.ID).UpdateColumn("posts_count", posts).Error; err != nil {
			log.Printf("Counter reconciliation: failed to fix user %s: %v", user.ID, err)
			continue
		}
		fixed++
	}

	return fixed
}
