package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anonto42/inkwell/backend/internal/engagement"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ActivityService covers the read-only views of the engine.
type ActivityService interface {
	Activity(ctx context.Context, userID uint) (*models.UserActivity, error)
	AuthorStatistics(ctx context.Context, authorID uint) (*models.AuthorStatistics, error)
	FindPartialStates(ctx context.Context, limit int) ([]engagement.PartialStateReport, error)
}

// ActivityHandler serves activity aggregates, author statistics and the
// partial-state report.
type ActivityHandler struct {
	activity ActivityService
}

func NewActivityHandler(activity ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.GET("/activity", h.GetActivity)
	g.GET("/statistics", h.GetOwnStatistics)
	g.GET("/authors/:id/statistics", h.GetAuthorStatistics)
	g.GET("/admin/partial-states", h.GetPartialStates)
}

// GetActivity returns the current user's engagement aggregate
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	activity, err := h.activity.Activity(c.Request().Context(), userID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": activity})
}

// GetOwnStatistics returns statistics for the current author
func (h *ActivityHandler) GetOwnStatistics(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	return h.statistics(c, userID)
}

// GetAuthorStatistics returns statistics for any author
func (h *ActivityHandler) GetAuthorStatistics(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	return h.statistics(c, authorID)
}

func (h *ActivityHandler) statistics(c echo.Context, authorID uint) error {
	stats, err := h.activity.AuthorStatistics(c.Request().Context(), authorID)
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}

type partialStateResponse struct {
	Like   models.Like `json:"like"`
	Reason string      `json:"reason"`
}

// GetPartialStates lists likes whose notification link is missing. Admins only.
func (h *ActivityHandler) GetPartialStates(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	if getRoleFromContext(c) != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	reports, err := h.activity.FindPartialStates(c.Request().Context(), limit)
	if err != nil {
		return engagementError(err)
	}

	out := make([]partialStateResponse, len(reports))
	for i, r := range reports {
		out[i] = partialStateResponse{Like: r.Like, Reason: r.Err.Error()}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out, "meta": echo.Map{"count": len(out)}})
}
