package availability

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
	rg.GET("/availability", h.GetAvailability)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	courseType := domain.CourseType(c.Query("courseType"))

	res, err := h.service.Resolve(c.Request.Context(), date, courseType)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and courseType are required")
			return
		}
		response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Availability is temporarily unavailable")
		return
	}

	response.Success(c, http.StatusOK, res)
}
