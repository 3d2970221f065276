package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/engagement"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/validators"
	"github.com/labstack/echo/v4"
)

func reader(id uint) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{UserID: id, Role: models.RoleReader}
}

func admin(id uint) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{UserID: id, Role: models.RoleAdmin}
}

// newTestServer mounts routes under /api/v1 with claims already in the
// context, standing in for the auth middleware. nil claims means anonymous.
func newTestServer(t *testing.T, claims *models.JwtCustomClaims, register func(g *echo.Group)) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()
	g := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims != nil {
				c.Set(ContextKeyUser, claims)
			}
			return next(c)
		}
	})
	register(g)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type likeCall struct {
	actor  uint
	kind   models.TargetKind
	target string
}

type listCall struct {
	kind     models.TargetKind
	targetID string
	limit    int
}

type stubLikes struct {
	calls    []likeCall
	listed   []listCall
	err      error
	hasLiked bool
	count    int64
}

func (s *stubLikes) Like(_ context.Context, actorID uint, kind models.TargetKind, targetID string) (*models.Like, error) {
	s.calls = append(s.calls, likeCall{actorID, kind, targetID})
	if s.err != nil {
		return nil, s.err
	}
	return &models.Like{ID: 1, UserID: actorID, TargetType: kind, TargetID: targetID}, nil
}

func (s *stubLikes) Unlike(_ context.Context, actorID uint, kind models.TargetKind, targetID string) error {
	s.calls = append(s.calls, likeCall{actorID, kind, targetID})
	return s.err
}

func (s *stubLikes) HasLiked(context.Context, uint, models.TargetKind, string) (bool, error) {
	return s.hasLiked, s.err
}

func (s *stubLikes) GetLikesByTarget(_ context.Context, kind models.TargetKind, targetID string, limit int) ([]models.Like, error) {
	s.listed = append(s.listed, listCall{kind, targetID, limit})
	if s.err != nil {
		return nil, s.err
	}
	return []models.Like{{ID: 1, UserID: 8, TargetType: kind, TargetID: targetID}}, nil
}

func (s *stubLikes) LikeCount(context.Context, models.TargetKind, string) (int64, error) {
	return s.count, s.err
}

type stubFollows struct {
	err        error
	reconciled []uint
	users      []models.User
}

func (s *stubFollows) Follow(context.Context, uint, uint) error   { return s.err }
func (s *stubFollows) Unfollow(context.Context, uint, uint) error { return s.err }

func (s *stubFollows) IsFollowing(context.Context, uint, uint) (bool, error) {
	return s.err == nil, s.err
}

func (s *stubFollows) ReconcileFollowCounter(_ context.Context, userID uint) (int64, error) {
	s.reconciled = append(s.reconciled, userID)
	return 4, s.err
}

func (s *stubFollows) GetFollowers(context.Context, uint) ([]models.User, error) { return s.users, s.err }
func (s *stubFollows) GetFollowing(context.Context, uint) ([]models.User, error) { return s.users, s.err }

type stubActivity struct {
	activity *models.UserActivity
	stats    map[uint]*models.AuthorStatistics
	reports  []engagement.PartialStateReport
	err      error
}

func (s *stubActivity) Activity(_ context.Context, userID uint) (*models.UserActivity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.activity, nil
}

func (s *stubActivity) AuthorStatistics(_ context.Context, authorID uint) (*models.AuthorStatistics, error) {
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.stats[authorID]
	if !ok {
		return nil, engagement.ErrNotFound
	}
	return st, nil
}

func (s *stubActivity) FindPartialStates(context.Context, int) ([]engagement.PartialStateReport, error) {
	return s.reports, s.err
}

type stubNotifications struct {
	items     []models.Notification
	total     int64
	unread    int64
	markErr   error
	groupedAt time.Time
}

func (s *stubNotifications) CreateNotification(context.Context, *models.Notification) error { return nil }
func (s *stubNotifications) DeleteNotification(context.Context, uint) error                 { return nil }

func (s *stubNotifications) GetByRecipientID(_ context.Context, _ uint, page, limit int) ([]models.Notification, int64, error) {
	return s.items, s.total, nil
}

func (s *stubNotifications) GetGrouped(_ context.Context, _ uint, now time.Time) (today, yesterday, thisWeek, older []models.Notification, err error) {
	s.groupedAt = now
	return s.items, nil, nil, nil, nil
}

func (s *stubNotifications) GetUnreadCount(context.Context, uint) (int64, error) { return s.unread, nil }

func (s *stubNotifications) MarkAsRead(context.Context, uint, uint) error { return s.markErr }
func (s *stubNotifications) MarkAllAsRead(context.Context, uint) error   { return nil }

type stubUsers map[uint]*models.User

func (s stubUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return u, nil
}
