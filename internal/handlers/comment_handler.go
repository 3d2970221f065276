package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ContentService creates comments and replies through the engagement engine.
type ContentService interface {
	Comment(ctx context.Context, userID uint, postID, content string) (*models.Comment, error)
	Reply(ctx context.Context, userID uint, commentID, content string) (*models.Reply, error)
}

type CommentReader interface {
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	GetRepliesByCommentID(ctx context.Context, commentID string) ([]models.Reply, error)
}

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	content  ContentService
	comments CommentReader
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(content ContentService, comments CommentReader) *CommentHandler {
	return &CommentHandler{content: content, comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.POST("/comments/:comment_id/replies", h.CreateReply)
	g.GET("/comments/:comment_id/replies", h.GetRepliesByCommentID)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.content.Comment(c.Request().Context(), userID, c.Param("post_id"), req.Content)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// CreateReply answers a comment
func (h *CommentHandler) CreateReply(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.content.Reply(c.Request().Context(), userID, c.Param("comment_id"), req.Content)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusCreated, reply)
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	comments, err := h.comments.GetCommentsByPostID(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return engagementError(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

// GetRepliesByCommentID lists the replies to a comment, oldest first
func (h *CommentHandler) GetRepliesByCommentID(c echo.Context) error {
	replies, err := h.comments.GetRepliesByCommentID(c.Request().Context(), c.Param("comment_id"))
	if err != nil {
		return engagementError(err)
	}
	if replies == nil {
		replies = []models.Reply{}
	}
	return c.JSON(http.StatusOK, replies)
}
