package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ReadingProfileReader loads a user's reading history and interest tags.
type ReadingProfileReader interface {
	GetProfile(ctx context.Context, userID uint) (*models.ReadingProfile, error)
}

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users   UserReader
	reading ReadingProfileReader
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserReader, reading ReadingProfileReader) *UserHandler {
	return &UserHandler{users: users, reading: reading}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.GET("/profile/reading", h.GetReadingProfile)
	g.GET("/users/:id", h.GetUser)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetReadingProfile returns the reading history and interest tags of the
// current user. A user who has read nothing gets an empty profile.
func (h *UserHandler) GetReadingProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	profile, err := h.reading.GetProfile(c.Request().Context(), userID)
	if errors.Is(err, models.ErrRecordNotFound) {
		profile, err = &models.ReadingProfile{UserID: userID}, nil
	}
	if err != nil {
		return engagementError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
