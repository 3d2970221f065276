package repositories

import (
	"context"

	"github.com/anonto42/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresBookmarkRepository stores bookmarks in PostgreSQL
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return gormError(r.db.WithContext(ctx).Create(bookmark).Error)
}

func (r *PostgresBookmarkRepository) DeleteBookmark(ctx context.Context, userID uint, postID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresBookmarkRepository) GetBookmarksByUser(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	return bookmarks, gormError(err)
}

// GetBookmarkedPostIDs reports which of postIDs the user has bookmarked
func (r *PostgresBookmarkRepository) GetBookmarkedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&bookmarks).Error
	if err != nil {
		return nil, gormError(err)
	}
	for _, b := range bookmarks {
		result[b.PostID] = true
	}
	return result, nil
}
