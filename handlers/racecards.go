package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/rpscrape/scrape"
)

// Racecards returns the stored cards for a date nested by region, course
// and off time, the same shape the racecards command writes to disk.
func (h *Handler) Racecards(c echo.Context) error {
	date, err := queryDate(c)
	if err != nil {
		return err
	}

	cards, err := h.store.RacecardsByDate(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := scrape.Racecards{}
	for i := range cards {
		out.Add(&cards[i])
	}
	return c.JSON(http.StatusOK, out)
}
