package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type BookmarkService interface {
	Bookmark(ctx context.Context, userID uint, postID string) (*models.Bookmark, error)
	Unbookmark(ctx context.Context, userID uint, postID string) error
	Bookmarks(ctx context.Context, userID uint) ([]models.Bookmark, error)
}

// BookmarkHandler handles saved-post requests
type BookmarkHandler struct {
	bookmarks BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarks BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/bookmark", h.BookmarkPost)
	g.DELETE("/posts/:post_id/bookmark", h.RemoveBookmark)
	g.GET("/bookmarks", h.GetBookmarks)
}

// BookmarkPost saves a post for the current user
func (h *BookmarkHandler) BookmarkPost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	bookmark, err := h.bookmarks.Bookmark(c.Request().Context(), userID, c.Param("post_id"))
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusCreated, bookmark)
}

// RemoveBookmark removes a saved post
func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.bookmarks.Unbookmark(c.Request().Context(), userID, c.Param("post_id")); err != nil {
		return engagementError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBookmarks lists the current user's saved posts
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	list, err := h.bookmarks.Bookmarks(c.Request().Context(), userID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": list})
}
