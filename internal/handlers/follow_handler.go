package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	ReconcileFollowCounter(ctx context.Context, userID uint) (int64, error)
}

// FollowLister lists the users on either side of a follow edge.
type FollowLister interface {
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
}

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows FollowService
	lister  FollowLister
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows FollowService, lister FollowLister) *FollowHandler {
	return &FollowHandler{follows: follows, lister: lister}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.GetFollowStatus)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.POST("/users/:id/followers/reconcile", h.ReconcileFollowers)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.follows.Follow(c.Request().Context(), currentUserID, targetID); err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.follows.Unfollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	following, err := h.follows.IsFollowing(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.list(c, h.lister.GetFollowers)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.list(c, h.lister.GetFollowing)
}

func (h *FollowHandler) list(c echo.Context, fetch func(context.Context, uint) ([]models.User, error)) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := fetch(c.Request().Context(), userID)
	if err != nil {
		return engagementError(err)
	}
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": compact}})
}

// ReconcileFollowers recomputes a follower counter from the follow edges.
// Only admins and the user themselves may trigger it.
func (h *FollowHandler) ReconcileFollowers(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if userID != currentUserID && getRoleFromContext(c) != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to reconcile this user")
	}

	count, err := h.follows.ReconcileFollowCounter(c.Request().Context(), userID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"total_follows": count}})
}
