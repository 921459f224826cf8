package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/rpscrape/models"
)

// queryDate reads the date query parameter. Both 2024-01-31 and 2024/01/31
// are accepted; the result is always dash separated.
func queryDate(c echo.Context) (string, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(c.QueryParam("date")), "/", "-")
	if raw == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	if _, err := time.Parse(time.DateOnly, raw); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return raw, nil
}

// Results returns the stored races for a date with their runners, optionally
// limited to one region.
func (h *Handler) Results(c echo.Context) error {
	date, err := queryDate(c)
	if err != nil {
		return err
	}

	races, err := h.store.RacesByDate(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	region := strings.TrimSpace(c.QueryParam("region"))
	if region == "" {
		return c.JSON(http.StatusOK, races)
	}

	out := make([]models.Race, 0, len(races))
	for _, r := range races {
		if strings.EqualFold(r.Region, region) {
			out = append(out, r)
		}
	}
	return c.JSON(http.StatusOK, out)
}
