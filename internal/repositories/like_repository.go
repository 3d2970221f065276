package repositories

import (
	"context"

	"github.com/anonto42/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresLikeRepository stores like records in PostgreSQL. The unique index
// idx_like_actor_target enforces one like per user and target.
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts the like. A second like of the same target returns models.ErrDuplicate.
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return gormError(r.db.WithContext(ctx).Create(like).Error)
}

// GetLike retrieves the like of one target by one user
func (r *PostgresLikeRepository) GetLike(ctx context.Context, userID uint, kind models.TargetKind, targetID string) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, kind, targetID).
		First(&like).Error
	if err != nil {
		return nil, gormError(err)
	}
	return &like, nil
}

func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Like{}, id)
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// SetNotification links a stored like to its notification
func (r *PostgresLikeRepository) SetNotification(ctx context.Context, likeID, notificationID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("id = ?", likeID).
		Update("notification_id", notificationID)
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// CountLikes counts likes of the given kind over any of targetIDs
func (r *PostgresLikeRepository) CountLikes(ctx context.Context, kind models.TargetKind, targetIDs []string) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_type = ? AND target_id IN ?", kind, targetIDs).
		Count(&count).Error
	return count, gormError(err)
}

// GetLikesByTarget lists the likes of one target, newest first
func (r *PostgresLikeRepository) GetLikesByTarget(ctx context.Context, kind models.TargetKind, targetID string, limit int) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", kind, targetID).
		Order("created_at DESC").
		Limit(limit).
		Find(&likes).Error
	return likes, gormError(err)
}

// FindUnlinked lists likes that never got their notification id stored, oldest first
func (r *PostgresLikeRepository) FindUnlinked(ctx context.Context, limit int) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Where("notification_id IS NULL").
		Order("id").
		Limit(limit).
		Find(&likes).Error
	return likes, gormError(err)
}
