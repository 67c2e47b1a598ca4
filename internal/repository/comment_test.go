package repository

import (
	"context"
	"errors"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createComment(t *testing.T, db *gorm.DB, postID, authorID uint, parentID *uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  "a comment",
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func TestGetParent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "threader")
	post := createPost(t, db, postOpts{authorID: author.ID})
	otherPost := createPost(t, db, postOpts{authorID: author.ID})

	topLevel := createComment(t, db, post.ID, author.ID, nil)
	reply := createComment(t, db, post.ID, author.ID, &topLevel.ID)

	t.Run("resolves a live top-level comment", func(t *testing.T) {
		parent, err := repo.GetParent(ctx, post.ID, topLevel.ID)
		require.NoError(t, err)
		assert.Equal(t, topLevel.ID, parent.ID)
	})

	t.Run("rejects a reply as parent", func(t *testing.T) {
		_, err := repo.GetParent(ctx, post.ID, reply.ID)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("rejects a parent on another post", func(t *testing.T) {
		_, err := repo.GetParent(ctx, otherPost.ID, topLevel.ID)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("rejects a deleted parent", func(t *testing.T) {
		doomed := createComment(t, db, post.ID, author.ID, nil)
		_, err := repo.SoftDeleteWithReplies(ctx, doomed.ID)
		require.NoError(t, err)

		_, err = repo.GetParent(ctx, post.ID, doomed.ID)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}

func TestSoftDeleteWithReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "deleter")
	post := createPost(t, db, postOpts{authorID: author.ID})

	parent := createComment(t, db, post.ID, author.ID, nil)
	createComment(t, db, post.ID, author.ID, &parent.ID)
	createComment(t, db, post.ID, author.ID, &parent.ID)
	survivor := createComment(t, db, post.ID, author.ID, nil)

	removed, err := repo.SoftDeleteWithReplies(ctx, parent.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed, "the parent and both replies")

	_, err = repo.GetByID(ctx, parent.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	count, err := repo.CountReplies(ctx, parent.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	remaining, err := repo.ListTopLevel(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, survivor.ID, remaining[0].ID)
}

func TestListReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "replier")
	post := createPost(t, db, postOpts{authorID: author.ID})
	parent := createComment(t, db, post.ID, author.ID, nil)

	var replies []*models.Comment
	for i := 0; i < 5; i++ {
		replies = append(replies, createComment(t, db, post.ID, author.ID, &parent.ID))
	}

	t.Run("preview limit", func(t *testing.T) {
		got, err := repo.ListReplies(ctx, parent.ID, 3)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("zero limit returns all oldest-first", func(t *testing.T) {
		got, err := repo.ListReplies(ctx, parent.ID, 0)
		require.NoError(t, err)
		require.Len(t, got, len(replies))
		assert.Equal(t, replies[0].ID, got[0].ID)
	})

	count, err := repo.CountReplies(ctx, parent.ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(replies), count)
}
