package repository

import (
	"context"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the persistence contract for users and their
// organization memberships.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	IsAdmin(ctx context.Context, id uint) (bool, error)
	// OrgMembership returns the caller's membership in the organization,
	// with the organization preloaded, or gorm.ErrRecordNotFound.
	OrgMembership(ctx context.Context, userID, orgID uint) (*models.OrgMembership, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IsAdmin(ctx context.Context, id uint) (bool, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("is_admin").First(&user, id).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (r *userRepository) OrgMembership(ctx context.Context, userID, orgID uint) (*models.OrgMembership, error) {
	var membership models.OrgMembership
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
