package server

import (
	"testing"
	"time"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/models"
	"ripple/internal/ranking"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	settings := config.NewSettings(viper.New())
	engine := ranking.NewEngine(settings)

	s := &Server{
		settings:       settings,
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
		engine:         engine,
	}
	s.postService = service.NewPostService(s.postRepo, s.userRepo, engine, settings, s.isAdminByUserID)
	s.feedService = service.NewFeedService(s.postRepo, settings)
	s.engagementService = service.NewEngagementService(
		s.engagementRepo, s.commentRepo, s.postRepo, engine, settings)
	s.moderationService = service.NewModerationService(s.postRepo)

	return s, db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, score float64) *models.Post {
	t.Helper()
	now := time.Now()
	post := &models.Post{
		AuthorID:               authorID,
		Content:                "feed content",
		Status:                 models.PostStatusActive,
		SubscriptionMultiplier: 1,
		RankingScore:           score,
		ScoreComputedAt:        &now,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
