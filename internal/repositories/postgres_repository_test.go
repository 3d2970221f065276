package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the same GORM
// settings the server uses for PostgreSQL.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Notification{},
		&models.Follow{},
		&models.Bookmark{},
	))
	return db
}

func seedUsers(t *testing.T, repo *PostgresUserRepository, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, len(names))
	for i, name := range names {
		u := &models.User{Username: name, Email: name + "@example.com", Role: models.RoleReader}
		require.NoError(t, repo.CreateUser(context.Background(), u))
		users[i] = u
	}
	return users
}

func TestPostgresLikeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresLikeRepository(newTestDB(t))

	like := &models.Like{UserID: 1, TargetType: models.TargetPost, TargetID: "p1"}
	require.NoError(t, repo.CreateLike(ctx, like))
	require.NotZero(t, like.ID)

	err := repo.CreateLike(ctx, &models.Like{UserID: 1, TargetType: models.TargetPost, TargetID: "p1"})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	// Same id under another kind is a different target.
	require.NoError(t, repo.CreateLike(ctx, &models.Like{UserID: 1, TargetType: models.TargetComment, TargetID: "p1"}))
	require.NoError(t, repo.CreateLike(ctx, &models.Like{UserID: 2, TargetType: models.TargetPost, TargetID: "p1"}))
	require.NoError(t, repo.CreateLike(ctx, &models.Like{UserID: 2, TargetType: models.TargetPost, TargetID: "p2"}))

	got, err := repo.GetLike(ctx, 1, models.TargetPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, like.ID, got.ID)
	assert.Nil(t, got.NotificationID)

	_, err = repo.GetLike(ctx, 3, models.TargetPost, "p1")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	n, err := repo.CountLikes(ctx, models.TargetPost, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.CountLikes(ctx, models.TargetPost, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	likes, err := repo.GetLikesByTarget(ctx, models.TargetPost, "p1", 10)
	require.NoError(t, err)
	assert.Len(t, likes, 2)

	unlinked, err := repo.FindUnlinked(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, unlinked, 4)

	require.NoError(t, repo.SetNotification(ctx, like.ID, 42))
	got, err = repo.GetLike(ctx, 1, models.TargetPost, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.NotificationID)
	assert.Equal(t, uint(42), *got.NotificationID)

	unlinked, err = repo.FindUnlinked(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, unlinked, 2)
	for _, l := range unlinked {
		assert.NotEqual(t, like.ID, l.ID)
	}

	assert.ErrorIs(t, repo.SetNotification(ctx, 9999, 1), models.ErrRecordNotFound)

	require.NoError(t, repo.DeleteLike(ctx, like.ID))
	assert.ErrorIs(t, repo.DeleteLike(ctx, like.ID), models.ErrRecordNotFound)
}

func TestPostgresFollowRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := seedUsers(t, NewPostgresUserRepository(db), "ann", "ben", "cat")
	repo := NewPostgresFollowRepository(db)

	require.NoError(t, repo.CreateFollow(ctx, &models.Follow{FollowerID: users[0].ID, FollowingID: users[2].ID}))
	require.NoError(t, repo.CreateFollow(ctx, &models.Follow{FollowerID: users[1].ID, FollowingID: users[2].ID}))

	err := repo.CreateFollow(ctx, &models.Follow{FollowerID: users[0].ID, FollowingID: users[2].ID})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	following, err := repo.IsFollowing(ctx, users[0].ID, users[2].ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = repo.IsFollowing(ctx, users[2].ID, users[0].ID)
	require.NoError(t, err)
	assert.False(t, following)

	n, err := repo.CountFollowers(ctx, users[2].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	followers, err := repo.GetFollowers(ctx, users[2].ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	followed, err := repo.GetFollowing(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, "cat", followed[0].Username)

	require.NoError(t, repo.DeleteFollow(ctx, users[0].ID, users[2].ID))
	assert.ErrorIs(t, repo.DeleteFollow(ctx, users[0].ID, users[2].ID), models.ErrRecordNotFound)
}

func TestPostgresUserRepository_FollowCounter(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresUserRepository(newTestDB(t))
	user := seedUsers(t, repo, "dora")[0]

	require.NoError(t, repo.AdjustFollowCount(ctx, user.ID, 1))
	require.NoError(t, repo.AdjustFollowCount(ctx, user.ID, 1))
	require.NoError(t, repo.AdjustFollowCount(ctx, user.ID, -1))

	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalFollows)

	require.NoError(t, repo.AdjustFollowCount(ctx, user.ID, -1))
	require.NoError(t, repo.AdjustFollowCount(ctx, user.ID, -1))
	got, err = repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalFollows)

	require.NoError(t, repo.SetFollowCount(ctx, user.ID, 7))
	got, err = repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.TotalFollows)

	assert.ErrorIs(t, repo.AdjustFollowCount(ctx, 999, 1), models.ErrRecordNotFound)
	assert.ErrorIs(t, repo.AdjustFollowCount(ctx, 999, -1), models.ErrRecordNotFound)
	assert.ErrorIs(t, repo.SetFollowCount(ctx, 999, 1), models.ErrRecordNotFound)
	_, err = repo.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestPostgresUserRepository_GetUserByFirebaseUID(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresUserRepository(newTestDB(t))

	uid := "firebase-uid-1"
	user := &models.User{Username: "eve", Email: "eve@example.com", FirebaseUID: &uid}
	require.NoError(t, repo.CreateUser(ctx, user))

	got, err := repo.GetUserByFirebaseUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetUserByFirebaseUID(ctx, "unknown")
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestPostgresNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(newTestDB(t))

	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	created := []time.Time{
		now.Add(-time.Hour),        // today
		now.Add(-20 * time.Hour),   // yesterday
		now.AddDate(0, 0, -3),      // this week
		now.AddDate(0, 0, -30),     // older
		now.Add(-30 * time.Minute), // today
	}
	var ids []uint
	for _, at := range created {
		n := &models.Notification{
			Type:        models.NotificationTypeLike,
			ActorID:     2,
			RecipientID: 1,
			TargetID:    "p1",
			TargetType:  models.TargetPost,
			Message:     "ben liked your post",
			CreatedAt:   at,
		}
		require.NoError(t, repo.CreateNotification(ctx, n))
		ids = append(ids, n.ID)
	}
	require.NoError(t, repo.CreateNotification(ctx, &models.Notification{RecipientID: 3, CreatedAt: now}))

	page, total, err := repo.GetByRecipientID(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)

	today, yesterday, thisWeek, older, err := repo.GetGrouped(ctx, 1, now)
	require.NoError(t, err)
	assert.Len(t, today, 2)
	assert.Len(t, yesterday, 1)
	assert.Len(t, thisWeek, 1)
	assert.Len(t, older, 1)

	unread, err := repo.GetUnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), unread)

	require.NoError(t, repo.MarkAsRead(ctx, 1, ids[0]))
	assert.ErrorIs(t, repo.MarkAsRead(ctx, 3, ids[1]), models.ErrRecordNotFound)

	unread, err = repo.GetUnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), unread)

	require.NoError(t, repo.MarkAllAsRead(ctx, 1))
	unread, err = repo.GetUnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = repo.GetUnreadCount(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, repo.DeleteNotification(ctx, ids[2]))
	assert.ErrorIs(t, repo.DeleteNotification(ctx, ids[2]), models.ErrRecordNotFound)
}

func TestPostgresBookmarkRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresBookmarkRepository(newTestDB(t))

	require.NoError(t, repo.CreateBookmark(ctx, &models.Bookmark{UserID: 1, PostID: "p1", CreatedAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.CreateBookmark(ctx, &models.Bookmark{UserID: 1, PostID: "p2", CreatedAt: time.Now()}))
	assert.ErrorIs(t, repo.CreateBookmark(ctx, &models.Bookmark{UserID: 1, PostID: "p1"}), models.ErrDuplicate)

	list, err := repo.GetBookmarksByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].PostID)

	saved, err := repo.GetBookmarkedPostIDs(ctx, 1, []string{"p1", "p3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true}, saved)

	require.NoError(t, repo.DeleteBookmark(ctx, 1, "p1"))
	assert.ErrorIs(t, repo.DeleteBookmark(ctx, 1, "p1"), models.ErrRecordNotFound)
}
