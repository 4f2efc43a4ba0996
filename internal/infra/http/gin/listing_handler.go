package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	listingapp "staybook/internal/app/handlers/listings"
	"staybook/internal/app/queries"
)

// ListingHandler wires the reporting queries to HTTP.
type ListingHandler struct {
	Queries queries.Bus
}

func (h ListingHandler) List(c *gin.Context) {
	query := listingapp.ListListingsQuery{
		Page:     parseIntQuery(c, "page"),
		PageSize: parseIntQuery(c, "page_size"),
	}
	result, err := queries.Ask[listingapp.ListListingsQuery, dto.ListingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorPayload{Kind: "validation", Field: "id", Detail: "listing id must be an integer"}})
		return
	}
	query := listingapp.ListingDetailQuery{
		ListingID: id,
		Page:      parseIntQuery(c, "page"),
		PageSize:  parseIntQuery(c, "page_size"),
	}
	result, err := queries.Ask[listingapp.ListingDetailQuery, dto.ListingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseIntQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

var _ ListingHTTP = ListingHandler{}
