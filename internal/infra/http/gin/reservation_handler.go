package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	reservationapp "staybook/internal/app/handlers/reservations"
)

// ReservationHandler accepts booking requests and hands them to the commit
// flow.
type ReservationHandler struct {
	Commands commands.Bus
}

type createReservationRequest struct {
	ListingID int64  `json:"listing"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorPayload{Kind: "validation", Detail: err.Error()}})
		return
	}
	cmd := reservationapp.CommitReservationCommand{
		ListingID: req.ListingID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	result, err := commands.Dispatch[reservationapp.CommitReservationCommand, dto.Reservation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ ReservationHTTP = ReservationHandler{}
