package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/engagement"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// LikeService is the part of the engagement engine the like routes use.
type LikeService interface {
	Like(ctx context.Context, actorID uint, kind models.TargetKind, targetID string) (*models.Like, error)
	Unlike(ctx context.Context, actorID uint, kind models.TargetKind, targetID string) error
	HasLiked(ctx context.Context, actorID uint, kind models.TargetKind, targetID string) (bool, error)
	LikeCount(ctx context.Context, kind models.TargetKind, targetID string) (int64, error)
}

// LikeLister reads the like records of one target.
type LikeLister interface {
	GetLikesByTarget(ctx context.Context, kind models.TargetKind, targetID string, limit int) ([]models.Like, error)
}

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes  LikeService
	likers LikeLister
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes LikeService, likers LikeLister) *LikeHandler {
	return &LikeHandler{likes: likes, likers: likers}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.GET("/posts/:post_id/likes", h.GetLikersForPost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCountForPost)
	g.GET("/posts/:post_id/likes/status", h.GetUserLikeStatusForPost)

	g.POST("/likes/:kind/:id", h.LikeTarget)
	g.DELETE("/likes/:kind/:id", h.UnlikeTarget)
	g.GET("/likes/:kind/:id", h.GetLikers)
	g.GET("/likes/:kind/:id/count", h.GetLikesCount)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	return h.like(c, models.TargetPost, c.Param("post_id"))
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	return h.unlike(c, models.TargetPost, c.Param("post_id"))
}

// LikeTarget likes a comment or a reply
func (h *LikeHandler) LikeTarget(c echo.Context) error {
	kind, err := engagement.ParseTargetKind(c.Param("kind"))
	if err != nil {
		return engagementError(err)
	}
	return h.like(c, kind, c.Param("id"))
}

// UnlikeTarget removes a like from a comment or a reply
func (h *LikeHandler) UnlikeTarget(c echo.Context) error {
	kind, err := engagement.ParseTargetKind(c.Param("kind"))
	if err != nil {
		return engagementError(err)
	}
	return h.unlike(c, kind, c.Param("id"))
}

func (h *LikeHandler) like(c echo.Context, kind models.TargetKind, targetID string) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	like, err := h.likes.Like(c.Request().Context(), userID, kind, targetID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusCreated, like)
}

func (h *LikeHandler) unlike(c echo.Context, kind models.TargetKind, targetID string) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.likes.Unlike(c.Request().Context(), userID, kind, targetID); err != nil {
		return engagementError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLikesCountForPost retrieves the total number of likes for a specific post
func (h *LikeHandler) GetLikesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")
	count, err := h.likes.LikeCount(c.Request().Context(), models.TargetPost, postID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}

// GetLikesCount retrieves the number of likes on a comment or a reply
func (h *LikeHandler) GetLikesCount(c echo.Context) error {
	kind, err := engagement.ParseTargetKind(c.Param("kind"))
	if err != nil {
		return engagementError(err)
	}
	targetID := c.Param("id")
	count, err := h.likes.LikeCount(c.Request().Context(), kind, targetID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"target_type": kind, "target_id": targetID, "likes_count": count})
}

// GetUserLikeStatusForPost checks if the authenticated user has liked a specific post
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	hasLiked, err := h.likes.HasLiked(c.Request().Context(), userID, models.TargetPost, postID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "user_id": userID, "has_liked": hasLiked})
}

// GetLikersForPost lists the most recent likes on a post
func (h *LikeHandler) GetLikersForPost(c echo.Context) error {
	return h.listLikes(c, models.TargetPost, c.Param("post_id"))
}

// GetLikers lists the most recent likes on any target kind
func (h *LikeHandler) GetLikers(c echo.Context) error {
	kind, err := engagement.ParseTargetKind(c.Param("kind"))
	if err != nil {
		return engagementError(err)
	}
	return h.listLikes(c, kind, c.Param("id"))
}

func (h *LikeHandler) listLikes(c echo.Context, kind models.TargetKind, targetID string) error {
	_, limit := pageParams(c)
	likes, err := h.likers.GetLikesByTarget(c.Request().Context(), kind, targetID, limit)
	if err != nil {
		return engagementError(err)
	}
	if likes == nil {
		likes = []models.Like{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": likes, "meta": echo.Map{"count": len(likes)}})
}
