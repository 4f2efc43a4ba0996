package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	availabilityapp "staybook/internal/app/handlers/availability"
	"staybook/internal/app/queries"
)

// AvailabilityHandler answers range availability queries. Dates travel as
// raw strings; the domain validator owns their interpretation.
type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Search(c *gin.Context) {
	query := availabilityapp.SearchAvailableQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	result, err := queries.Ask[availabilityapp.SearchAvailableQuery, []dto.Listing](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

var _ AvailabilityHTTP = AvailabilityHandler{}
