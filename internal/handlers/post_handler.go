package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// PostStore is the post storage the handler reads and writes.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
}

// AccessRecorder records reading history and interest tags.
type AccessRecorder interface {
	AccessPost(ctx context.Context, userID uint, postID string) error
}

// BookmarkChecker reports which posts a user has bookmarked.
type BookmarkChecker interface {
	GetBookmarkedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error)
}

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts     PostStore
	tracker   AccessRecorder
	bookmarks BookmarkChecker
	log       *slog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts PostStore, tracker AccessRecorder, bookmarks BookmarkChecker, log *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, tracker: tracker, bookmarks: bookmarks, log: log}
}

// PostWithViewerState is a post as seen by the requesting user
type PostWithViewerState struct {
	models.Post
	Bookmarked bool `json:"bookmarked"`
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:post_id", h.GetPost)
	g.POST("/posts/:post_id/access", h.RecordAccess)
	g.GET("/authors/:id/posts", h.GetAuthorPosts)
}

// CreatePost publishes a post. Only authors and admins may publish.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if role := getRoleFromContext(c); role != models.RoleAuthor && role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only authors can publish posts")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
	}
	if err := h.posts.CreatePost(c.Request().Context(), post); err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a post and records the read in the caller's reading profile.
// A failed access record is logged and does not fail the read.
func (h *PostHandler) GetPost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	post, err := h.posts.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return engagementError(err)
	}
	if err := h.tracker.AccessPost(c.Request().Context(), userID, postID); err != nil {
		h.log.WarnContext(c.Request().Context(), "access not recorded",
			"user_id", userID, "post_id", postID, "error", err)
	}
	return c.JSON(http.StatusOK, post)
}

// RecordAccess records a read without returning the post.
func (h *PostHandler) RecordAccess(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.tracker.AccessPost(c.Request().Context(), userID, c.Param("post_id")); err != nil {
		return engagementError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetAuthorPosts lists an author's posts with skip/limit paging, flagging the
// ones the caller has bookmarked.
func (h *PostHandler) GetAuthorPosts(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	ctx := c.Request().Context()
	posts, err := h.posts.GetPostsByAuthorID(ctx, authorID, skip, limit)
	if err != nil {
		return engagementError(err)
	}
	out, err := h.withViewerState(ctx, userID, posts)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListPosts pages through every post, newest first.
func (h *PostHandler) ListPosts(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	ctx := c.Request().Context()
	posts, err := h.posts.ListPosts(ctx, int64((page-1)*limit), int64(limit))
	if err != nil {
		return engagementError(err)
	}
	out, err := h.withViewerState(ctx, userID, posts)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out, "meta": echo.Map{"page": page, "limit": limit}})
}

func (h *PostHandler) withViewerState(ctx context.Context, userID uint, posts []models.Post) ([]PostWithViewerState, error) {
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID.Hex()
	}
	saved, err := h.bookmarks.GetBookmarkedPostIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PostWithViewerState, len(posts))
	for i, p := range posts {
		out[i] = PostWithViewerState{Post: p, Bookmarked: saved[ids[i]]}
	}
	return out, nil
}
