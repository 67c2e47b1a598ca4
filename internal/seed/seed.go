// Package seed populates a development database with plausible feed data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/ranking"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	devUserCount = 25
	devPostCount = 120
	devPassword  = "password123"
)

// Dev fills the database with fake users, organizations, posts, and
// engagement so the ranked feed has visible shape on first boot. It is a
// no-op when posts already exist.
func Dev(ctx context.Context, db *gorm.DB, settings *config.Settings) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("seed skipped, posts already present", slog.Int64("posts", count))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users, err := seedUsers(ctx, db, string(hash))
	if err != nil {
		return err
	}

	orgs, err := seedOrganizations(ctx, db, users)
	if err != nil {
		return err
	}

	if err := seedPosts(ctx, db, settings, users, orgs); err != nil {
		return err
	}

	slog.Info("dev data seeded",
		slog.Int("users", len(users)),
		slog.Int("organizations", len(orgs)),
		slog.Int("posts", devPostCount),
	)
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, passwordHash string) ([]*models.User, error) {
	plans := []string{models.PlanFree, models.PlanFree, models.PlanFree, models.PlanPro, models.PlanElite}

	users := make([]*models.User, 0, devUserCount+1)
	admin := &models.User{
		Username:    "admin",
		Email:       "admin@ripple.dev",
		Password:    passwordHash,
		DisplayName: "Ripple Admin",
		Plan:        models.PlanElite,
		IsAdmin:     true,
	}
	users = append(users, admin)

	for i := 0; i < devUserCount; i++ {
		users = append(users, &models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:       fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password:    passwordHash,
			DisplayName: gofakeit.Name(),
			AvatarURL:   gofakeit.ImageURL(128, 128),
			Plan:        plans[rand.Intn(len(plans))],
		})
	}

	if err := db.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func seedOrganizations(ctx context.Context, db *gorm.DB, users []*models.User) ([]*models.Organization, error) {
	roles := []string{"Engineer", "Designer", "Founder", "Analyst", "Advisor"}

	orgs := make([]*models.Organization, 0, 5)
	for i := 0; i < 5; i++ {
		orgs = append(orgs, &models.Organization{Name: fmt.Sprintf("%s %d", gofakeit.Company(), i)})
	}
	if err := db.WithContext(ctx).Create(&orgs).Error; err != nil {
		return nil, err
	}

	var memberships []*models.OrgMembership
	for _, user := range users {
		if rand.Intn(3) != 0 {
			continue
		}
		memberships = append(memberships, &models.OrgMembership{
			UserID:         user.ID,
			OrganizationID: orgs[rand.Intn(len(orgs))].ID,
			Role:           roles[rand.Intn(len(roles))],
		})
	}
	if len(memberships) > 0 {
		if err := db.WithContext(ctx).Create(&memberships).Error; err != nil {
			return nil, err
		}
	}
	return orgs, nil
}

func seedPosts(ctx context.Context, db *gorm.DB, settings *config.Settings, users []*models.User, orgs []*models.Organization) error {
	now := time.Now()
	engine := ranking.NewEngine(settings)

	for i := 0; i < devPostCount; i++ {
		author := users[rand.Intn(len(users))]
		createdAt := now.Add(-time.Duration(rand.Intn(7*24)) * time.Hour)

		post := &models.Post{
			AuthorID:               author.ID,
			Content:                gofakeit.Paragraph(1, 3, 12, " "),
			Status:                 models.PostStatusActive,
			SubscriptionMultiplier: settings.PlanMultiplier(author.Plan),
			CreatedAt:              createdAt,
		}
		if rand.Intn(4) == 0 {
			post.MediaURL = gofakeit.ImageURL(640, 480)
		}
		if err := db.WithContext(ctx).Create(post).Error; err != nil {
			return err
		}

		if err := seedEngagement(ctx, db, post, users); err != nil {
			return err
		}

		score := engine.Score(ranking.Inputs{
			LikeCount:    post.LikeCount,
			CommentCount: post.CommentCount,
			ShareCount:   post.ShareCount,
			CreatedAt:    post.CreatedAt,
			Multiplier:   post.SubscriptionMultiplier,
		}, now)
		if err := db.WithContext(ctx).Model(post).UpdateColumns(map[string]interface{}{
			"ranking_score":     score,
			"score_computed_at": now,
		}).Error; err != nil {
			return err
		}
	}

	// A couple of featured posts so the pinned bucket is visible.
	var featured []*models.Post
	if err := db.WithContext(ctx).Order("ranking_score DESC").Limit(2).Find(&featured).Error; err != nil {
		return err
	}
	admin := users[0]
	for _, post := range featured {
		until := now.Add(48 * time.Hour)
		if err := db.WithContext(ctx).Model(post).UpdateColumns(map[string]interface{}{
			"is_featured":    true,
			"featured_at":    now,
			"featured_until": until,
			"featured_by":    admin.ID,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedEngagement(ctx context.Context, db *gorm.DB, post *models.Post, users []*models.User) error {
	likers := rand.Intn(len(users))
	for _, user := range users[:likers] {
		if err := db.WithContext(ctx).Create(&models.Like{PostID: post.ID, UserID: user.ID}).Error; err != nil {
			return err
		}
		post.LikeCount++
	}

	sharers := rand.Intn(len(users) / 4)
	for _, user := range users[:sharers] {
		if err := db.WithContext(ctx).Create(&models.Share{PostID: post.ID, UserID: user.ID}).Error; err != nil {
			return err
		}
		post.ShareCount++
	}

	for i := 0; i < rand.Intn(5); i++ {
		comment := &models.Comment{
			PostID:   post.ID,
			AuthorID: users[rand.Intn(len(users))].ID,
			Content:  gofakeit.Sentence(10),
		}
		if err := db.WithContext(ctx).Create(comment).Error; err != nil {
			return err
		}
		post.CommentCount++

		if rand.Intn(2) == 0 {
			reply := &models.Comment{
				PostID:   post.ID,
				AuthorID: users[rand.Intn(len(users))].ID,
				ParentID: &comment.ID,
				Content:  gofakeit.Sentence(8),
			}
			if err := db.WithContext(ctx).Create(reply).Error; err != nil {
				return err
			}
			post.CommentCount++
		}
	}

	return db.WithContext(ctx).Model(post).UpdateColumns(map[string]interface{}{
		"like_count":    post.LikeCount,
		"share_count":   post.ShareCount,
		"comment_count": post.CommentCount,
	}).Error
}
