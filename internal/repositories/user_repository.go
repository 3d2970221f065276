package repositories

import (
	"context"

	"github.com/anonto42/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresUserRepository implements user storage for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return gormError(r.db.WithContext(ctx).Create(user).Error)
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, gormError(err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, gormError(err)
	}
	return &user, nil
}

// AdjustFollowCount adds delta to the user's follower counter in one
// statement. A decrement that would go below zero leaves the counter as is.
func (r *PostgresUserRepository) AdjustFollowCount(ctx context.Context, userID uint, delta int64) error {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.User{}).Where("id = ?", userID)
	if delta < 0 {
		q = q.Where("total_follows >= ?", -delta)
	}
	res := q.Update("total_follows", gorm.Expr("total_follows + ?", delta))
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return gormError(err)
	}
	if count == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// SetFollowCount overwrites the follower counter
func (r *PostgresUserRepository) SetFollowCount(ctx context.Context, userID uint, count int64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("total_follows", count)
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
