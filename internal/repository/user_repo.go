package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"faturadash/internal/models"
)

// UserRepository handles user database operations.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts or refreshes a user row keyed by openId.
func (r *UserRepository) Upsert(user *models.User) error {
	if user.LastSignedIn.IsZero() {
		user.LastSignedIn = time.Now()
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "login_method", "last_signed_in"}),
	}).Create(user).Error
}

// FindByOpenID returns a user by its OAuth identifier.
func (r *UserRepository) FindByOpenID(openID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("open_id = ?", openID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
