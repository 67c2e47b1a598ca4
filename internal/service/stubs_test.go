package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/ranking"
	"ripple/internal/repository"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	updateFieldsFn     func(context.Context, uint, map[string]interface{}) error
	updateScoreFn      func(context.Context, uint, float64, time.Time) error
	incrementCounterFn func(context.Context, uint, string) error
	decrementCounterFn func(context.Context, uint, string) error
	listRankedFn       func(context.Context, int, int, uint, time.Time) ([]*models.Post, error)
	listCursorFn       func(context.Context, int, *repository.FeedCursor, time.Time) ([]*models.Post, error)
	listFeaturedFn     func(context.Context, int, time.Time) ([]*models.Post, error)
	listByAuthorFn     func(context.Context, uint, int, int) ([]*models.Post, error)
	findStaleFn        func(context.Context, time.Time, int) ([]*models.Post, error)
	listActiveAfterFn  func(context.Context, uint, int) ([]*models.Post, error)
	adminListFn        func(context.Context, string, string, int, int) ([]*models.Post, int64, error)
	statsFn            func(context.Context, time.Time) (*repository.FeedStats, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.updateFieldsFn(ctx, id, fields)
}
func (s *postRepoStub) UpdateScore(ctx context.Context, id uint, score float64, at time.Time) error {
	return s.updateScoreFn(ctx, id, score, at)
}
func (s *postRepoStub) IncrementCounter(ctx context.Context, id uint, column string) error {
	return s.incrementCounterFn(ctx, id, column)
}
func (s *postRepoStub) DecrementCounter(ctx context.Context, id uint, column string) error {
	return s.decrementCounterFn(ctx, id, column)
}
func (s *postRepoStub) ListRanked(ctx context.Context, limit, offset int, excludeAuthor uint, now time.Time) ([]*models.Post, error) {
	return s.listRankedFn(ctx, limit, offset, excludeAuthor, now)
}
func (s *postRepoStub) ListCursor(ctx context.Context, limit int, after *repository.FeedCursor, now time.Time) ([]*models.Post, error) {
	return s.listCursorFn(ctx, limit, after, now)
}
func (s *postRepoStub) ListFeatured(ctx context.Context, limit int, now time.Time) ([]*models.Post, error) {
	return s.listFeaturedFn(ctx, limit, now)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*models.Post, error) {
	return s.findStaleFn(ctx, olderThan, limit)
}
func (s *postRepoStub) ListActiveAfter(ctx context.Context, afterID uint, limit int) ([]*models.Post, error) {
	return s.listActiveAfterFn(ctx, afterID, limit)
}
func (s *postRepoStub) AdminList(ctx context.Context, status, query string, limit, offset int) ([]*models.Post, int64, error) {
	return s.adminListFn(ctx, status, query, limit, offset)
}
func (s *postRepoStub) Stats(ctx context.Context, now time.Time) (*repository.FeedStats, error) {
	return s.statsFn(ctx, now)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:       func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:      func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		updateFieldsFn: func(_ context.Context, _ uint, _ map[string]interface{}) error { return nil },
		updateScoreFn:  func(_ context.Context, _ uint, _ float64, _ time.Time) error { return nil },
		incrementCounterFn: func(_ context.Context, _ uint, _ string) error { return nil },
		decrementCounterFn: func(_ context.Context, _ uint, _ string) error { return nil },
		listRankedFn: func(_ context.Context, _, _ int, _ uint, _ time.Time) ([]*models.Post, error) {
			return nil, nil
		},
		listCursorFn: func(_ context.Context, _ int, _ *repository.FeedCursor, _ time.Time) ([]*models.Post, error) {
			return nil, nil
		},
		listFeaturedFn: func(_ context.Context, _ int, _ time.Time) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		findStaleFn:    func(_ context.Context, _ time.Time, _ int) ([]*models.Post, error) { return nil, nil },
		listActiveAfterFn: func(_ context.Context, _ uint, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		adminListFn: func(_ context.Context, _, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		statsFn: func(_ context.Context, _ time.Time) (*repository.FeedStats, error) {
			return &repository.FeedStats{}, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	isAdminFn       func(context.Context, uint) (bool, error)
	orgMembershipFn func(context.Context, uint, uint) (*models.OrgMembership, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) IsAdmin(ctx context.Context, id uint) (bool, error) {
	return s.isAdminFn(ctx, id)
}
func (s *userRepoStub) OrgMembership(ctx context.Context, userID, orgID uint) (*models.OrgMembership, error) {
	return s.orgMembershipFn(ctx, userID, orgID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id, Plan: models.PlanFree}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{}, nil
		},
		isAdminFn: func(_ context.Context, _ uint) (bool, error) { return false, nil },
		orgMembershipFn: func(_ context.Context, _, _ uint) (*models.OrgMembership, error) {
			return &models.OrgMembership{}, nil
		},
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	insertLikeFn  func(context.Context, uint, uint) (bool, error)
	deleteLikeFn  func(context.Context, uint, uint) (bool, error)
	hasLikedFn    func(context.Context, uint, uint) (bool, error)
	listLikesFn   func(context.Context, uint, int, int) ([]*models.Like, error)
	insertShareFn func(context.Context, uint, uint) (bool, error)
	listSharesFn  func(context.Context, uint, int, int) ([]*models.Share, error)
}

func (s *engagementRepoStub) InsertLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.insertLikeFn(ctx, postID, userID)
}
func (s *engagementRepoStub) DeleteLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.deleteLikeFn(ctx, postID, userID)
}
func (s *engagementRepoStub) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.hasLikedFn(ctx, postID, userID)
}
func (s *engagementRepoStub) ListLikes(ctx context.Context, postID uint, limit, offset int) ([]*models.Like, error) {
	return s.listLikesFn(ctx, postID, limit, offset)
}
func (s *engagementRepoStub) InsertShare(ctx context.Context, postID, userID uint) (bool, error) {
	return s.insertShareFn(ctx, postID, userID)
}
func (s *engagementRepoStub) ListShares(ctx context.Context, postID uint, limit, offset int) ([]*models.Share, error) {
	return s.listSharesFn(ctx, postID, limit, offset)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		insertLikeFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteLikeFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		hasLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listLikesFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.Like, error) { return nil, nil },
		insertShareFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listSharesFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.Share, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn                func(context.Context, *models.Comment) error
	getByIDFn               func(context.Context, uint) (*models.Comment, error)
	getParentFn             func(context.Context, uint, uint) (*models.Comment, error)
	listTopLevelFn          func(context.Context, uint, int, int) ([]*models.Comment, error)
	listRepliesFn           func(context.Context, uint, int) ([]*models.Comment, error)
	countRepliesFn          func(context.Context, uint) (int64, error)
	softDeleteWithRepliesFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetParent(ctx context.Context, postID, parentID uint) (*models.Comment, error) {
	return s.getParentFn(ctx, postID, parentID)
}
func (s *commentRepoStub) ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listTopLevelFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint, limit int) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentID, limit)
}
func (s *commentRepoStub) CountReplies(ctx context.Context, parentID uint) (int64, error) {
	return s.countRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) SoftDeleteWithReplies(ctx context.Context, id uint) (int64, error) {
	return s.softDeleteWithRepliesFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:      func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		getParentFn:    func(_ context.Context, _, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listTopLevelFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		listRepliesFn:  func(_ context.Context, _ uint, _ int) ([]*models.Comment, error) { return nil, nil },
		countRepliesFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		softDeleteWithRepliesFn: func(_ context.Context, _ uint) (int64, error) {
			return 1, nil
		},
	}
}

// testSettings builds an isolated Settings provider so tests can retune
// weights without touching the global viper.
func testSettings() *config.Settings {
	return config.NewSettings(viper.New())
}

func testEngine() *ranking.Engine {
	return ranking.NewEngine(testSettings())
}

// assertAppError asserts that err carries the given application error code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
