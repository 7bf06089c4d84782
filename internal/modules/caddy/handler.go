package caddy

import (
	"errors"
	"net/http"

	"golfclub/internal/domain"
	"golfclub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/caddies", h.ListFree)
}

// ListFree serves the step-3 candidate list. The holder token comes
// from the caller's draft so their own holds stay visible; clients
// re-poll this endpoint at the interval echoed in the payload.
func (h *Handler) ListFree(c *gin.Context) {
	key := domain.SlotKey{
		Date:       c.Query("date"),
		TimeSlot:   c.Query("timeSlot"),
		CourseType: domain.CourseType(c.Query("courseType")),
	}
	holder := c.Query("holder")

	res, err := h.service.ListFree(c.Request.Context(), key, holder)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date, timeSlot and courseType are required")
			return
		}
		response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Caddy list is temporarily unavailable")
		return
	}

	response.Success(c, http.StatusOK, res)
}
