package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/rpscrape/reference"
)

type courseData struct {
	CourseID string `json:"courseID"`
	Course   string `json:"course"`
	Region   string `json:"region"`
	IsAW     bool   `json:"isAw"`
	Stored   bool   `json:"stored"`
}

// Courses returns every known course for a region (all regions when empty).
// Courses with stored races carry their surface flag from the database.
func (h *Handler) Courses(c echo.Context) error {
	region := strings.ToLower(strings.TrimSpace(c.QueryParam("region")))

	known, err := h.ref.Courses(region)
	if err != nil {
		if errors.Is(err, reference.ErrUnknownRegion) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stored, err := h.store.Courses(c.Request().Context(), strings.ToUpper(region))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	aw := make(map[string]bool, len(stored))
	for _, s := range stored {
		aw[s.CourseID] = s.IsAW
	}

	result := make([]courseData, len(known))
	for i, k := range known {
		isAW, ok := aw[k.ID]
		result[i] = courseData{
			CourseID: k.ID,
			Course:   k.Name,
			Region:   k.Region,
			IsAW:     isAW,
			Stored:   ok,
		}
	}
	return c.JSON(http.StatusOK, result)
}

// Regions lists every region code with its name.
func (h *Handler) Regions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ref.Regions())
}

// Dates returns the distinct dates with stored races, newest first,
// optionally filtered by course ID.
func (h *Handler) Dates(c echo.Context) error {
	courseID := c.QueryParam("courseID")

	var dates []string
	q := h.db.NewSelect().
		TableExpr("races").
		ColumnExpr("DISTINCT date::text").
		OrderExpr("date DESC")

	if courseID != "" {
		q = q.Where("course_id = ?", courseID)
	}

	if err := q.Scan(c.Request().Context(), &dates); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dates)
}
