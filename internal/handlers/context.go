package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/inkwell/backend/internal/engagement"
	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ContextKeyUser is where the auth middleware stores *models.JwtCustomClaims.
const ContextKeyUser = middleware.ContextKeyUser

// getUserIDFromContext returns the authenticated user's id, or 0 if the
// request carries no claims.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(ContextKeyUser).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

func getRoleFromContext(c echo.Context) string {
	claims, ok := c.Get(ContextKeyUser).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.Role
}

func requireUser(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// engagementError maps engine errors onto HTTP errors.
func engagementError(err error) error {
	switch {
	case errors.Is(err, engagement.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, engagement.ErrInvalidKind), errors.Is(err, engagement.ErrSelfFollow):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, engagement.ErrAlreadyEngaged), errors.Is(err, engagement.ErrAlreadyFollowing):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, engagement.ErrNotEngaged), errors.Is(err, engagement.ErrNotFollowing):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// pageParams reads page and limit query parameters, defaulting to page 1 of 20.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}
