package service

import (
	"context"
	"testing"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// moderationRepo wires a post repo whose GetByID serves the given post and
// records the last UpdateFields payload.
func moderationRepo(post *models.Post) (*postRepoStub, *map[string]interface{}) {
	var updated map[string]interface{}
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return post, nil }
	posts.updateFieldsFn = func(_ context.Context, _ uint, fields map[string]interface{}) error {
		updated = fields
		return nil
	}
	return posts, &updated
}

func TestHide(t *testing.T) {
	t.Parallel()

	t.Run("active post", func(t *testing.T) {
		t.Parallel()
		posts, updated := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusActive})

		svc := NewModerationService(posts)
		_, err := svc.Hide(context.Background(), 9, 1, "spam")
		require.NoError(t, err)

		fields := *updated
		assert.Equal(t, models.PostStatusHidden, fields["status"])
		assert.Equal(t, uint(9), fields["moderated_by"])
		assert.Equal(t, "spam", fields["moderation_reason"])
		assert.Contains(t, fields, "moderated_at")
	})

	for _, status := range []string{models.PostStatusHidden, models.PostStatusDeleted} {
		status := status
		t.Run("rejects "+status, func(t *testing.T) {
			t.Parallel()
			posts, _ := moderationRepo(&models.Post{ID: 1, Status: status})

			svc := NewModerationService(posts)
			_, err := svc.Hide(context.Background(), 9, 1, "spam")
			assertAppError(t, err, models.CodeInvalidState)
		})
	}
}

func TestRestore(t *testing.T) {
	t.Parallel()

	t.Run("hidden post", func(t *testing.T) {
		t.Parallel()
		posts, updated := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusHidden})

		svc := NewModerationService(posts)
		_, err := svc.Restore(context.Background(), 9, 1)
		require.NoError(t, err)

		fields := *updated
		assert.Equal(t, models.PostStatusActive, fields["status"])
		assert.Nil(t, fields["moderated_by"])
		assert.Equal(t, "", fields["moderation_reason"])
		assert.Nil(t, fields["moderated_at"])
	})

	for _, status := range []string{models.PostStatusActive, models.PostStatusDeleted} {
		status := status
		t.Run("rejects "+status, func(t *testing.T) {
			t.Parallel()
			posts, _ := moderationRepo(&models.Post{ID: 1, Status: status})

			svc := NewModerationService(posts)
			_, err := svc.Restore(context.Background(), 9, 1)
			assertAppError(t, err, models.CodeInvalidState)
		})
	}
}

func TestModerationDelete(t *testing.T) {
	t.Parallel()

	t.Run("hidden post can be deleted", func(t *testing.T) {
		t.Parallel()
		posts, updated := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusHidden})

		svc := NewModerationService(posts)
		_, err := svc.Delete(context.Background(), 9, 1, "abuse")
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusDeleted, (*updated)["status"])
	})

	t.Run("deleted is terminal", func(t *testing.T) {
		t.Parallel()
		posts, _ := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusDeleted})

		svc := NewModerationService(posts)
		_, err := svc.Delete(context.Background(), 9, 1, "abuse")
		assertAppError(t, err, models.CodeInvalidState)
	})
}

func TestFeature(t *testing.T) {
	t.Parallel()

	t.Run("with duration", func(t *testing.T) {
		t.Parallel()
		posts, updated := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusActive})
		hours := 48

		svc := NewModerationService(posts)
		_, err := svc.Feature(context.Background(), 9, 1, &hours)
		require.NoError(t, err)

		fields := *updated
		assert.Equal(t, true, fields["is_featured"])
		assert.Equal(t, uint(9), fields["featured_by"])
		until, ok := fields["featured_until"].(time.Time)
		require.True(t, ok, "a duration sets an expiry")
		assert.WithinDuration(t, time.Now().Add(48*time.Hour), until, time.Minute)
	})

	t.Run("indefinite", func(t *testing.T) {
		t.Parallel()
		posts, updated := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusActive})

		svc := NewModerationService(posts)
		_, err := svc.Feature(context.Background(), 9, 1, nil)
		require.NoError(t, err)
		assert.Nil(t, (*updated)["featured_until"])
	})

	t.Run("non-positive duration", func(t *testing.T) {
		t.Parallel()
		posts, _ := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusActive})
		hours := 0

		svc := NewModerationService(posts)
		_, err := svc.Feature(context.Background(), 9, 1, &hours)
		assertAppError(t, err, models.CodeValidation)
	})

	t.Run("only active posts", func(t *testing.T) {
		t.Parallel()
		posts, _ := moderationRepo(&models.Post{ID: 1, Status: models.PostStatusHidden})

		svc := NewModerationService(posts)
		_, err := svc.Feature(context.Background(), 9, 1, nil)
		assertAppError(t, err, models.CodeInvalidState)
	})
}

func TestUnfeature_ClearsPin(t *testing.T) {
	t.Parallel()

	now := time.Now()
	posts, updated := moderationRepo(&models.Post{
		ID:         1,
		Status:     models.PostStatusActive,
		IsFeatured: true,
		FeaturedAt: &now,
	})

	svc := NewModerationService(posts)
	_, err := svc.Unfeature(context.Background(), 9, 1)
	require.NoError(t, err)

	fields := *updated
	assert.Equal(t, false, fields["is_featured"])
	assert.Nil(t, fields["featured_at"])
	assert.Nil(t, fields["featured_until"])
	assert.Nil(t, fields["featured_by"])
}

func TestModerationListPosts(t *testing.T) {
	t.Parallel()

	t.Run("invalid status filter", func(t *testing.T) {
		t.Parallel()
		svc := NewModerationService(noopPostRepo())
		_, _, err := svc.ListPosts(context.Background(), "ARCHIVED", "", 20, 0)
		assertAppError(t, err, models.CodeValidation)
	})

	t.Run("passes filters through", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		var gotStatus, gotQuery string
		posts.adminListFn = func(_ context.Context, status, query string, _, _ int) ([]*models.Post, int64, error) {
			gotStatus, gotQuery = status, query
			return []*models.Post{{ID: 1}}, 1, nil
		}

		svc := NewModerationService(posts)
		list, total, err := svc.ListPosts(context.Background(), models.PostStatusHidden, "spam", 20, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, models.PostStatusHidden, gotStatus)
		assert.Equal(t, "spam", gotQuery)
	})
}

func TestModerationNotFound(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewModerationService(posts)
	_, err := svc.Hide(context.Background(), 9, 99, "")
	assertAppError(t, err, models.CodeNotFound)
}

func TestModerationStats(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.statsFn = func(_ context.Context, _ time.Time) (*repository.FeedStats, error) {
		return &repository.FeedStats{ActiveCount: 10, HiddenCount: 2}, nil
	}

	svc := NewModerationService(posts)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 10, stats.ActiveCount)
	assert.EqualValues(t, 2, stats.HiddenCount)
}
