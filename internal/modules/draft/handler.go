package draft

import (
	"errors"
	"fmt"
	"net/http"

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
	rg.GET("/booking/draft", h.StartOrRestore)
	rg.PATCH("/booking/draft", h.Update)
	rg.POST("/booking/draft/next", h.Advance)
	rg.POST("/booking/draft/back", h.Back)
	rg.POST("/booking/draft/caddies", h.SelectCaddy)
	rg.DELETE("/booking/draft/caddies/:caddyID", h.DeselectCaddy)
	rg.POST("/booking/draft/restore", h.RestoreAfterCancel)
	rg.DELETE("/booking/draft", h.Abandon)
}

// SessionKey derives the snapshot key: one active draft per golfer.
func SessionKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func (h *Handler) StartOrRestore(c *gin.Context) {
	userID := c.GetInt64("user_id")
	snap, err := h.service.Start(c.Request.Context(), SessionKey(userID), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking draft")
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	snap, err := h.service.Update(c.Request.Context(), SessionKey(c.GetInt64("user_id")), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Advance(c *gin.Context) {
	snap, err := h.service.Advance(c.Request.Context(), SessionKey(c.GetInt64("user_id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Back(c *gin.Context) {
	snap, err := h.service.Back(c.Request.Context(), SessionKey(c.GetInt64("user_id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) SelectCaddy(c *gin.Context) {
	var req SelectCaddyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "caddy_id is required")
		return
	}

	snap, err := h.service.SelectCaddy(c.Request.Context(), SessionKey(c.GetInt64("user_id")), req.CaddyID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) DeselectCaddy(c *gin.Context) {
	caddyID := c.Param("caddyID")
	snap, err := h.service.DeselectCaddy(c.Request.Context(), SessionKey(c.GetInt64("user_id")), caddyID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) RestoreAfterCancel(c *gin.Context) {
	snap, err := h.service.RestoreAfterCancel(c.Request.Context(), SessionKey(c.GetInt64("user_id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Abandon(c *gin.Context) {
	if err := h.service.Abandon(c.Request.Context(), SessionKey(c.GetInt64("user_id"))); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to abandon draft")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"abandoned": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrCaddyCount):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No booking draft for this session")
	case errors.Is(err, ErrSlotClosed):
		response.Error(c, http.StatusConflict, "CONFLICT", "The selected time slot was just booked; please pick another")
	case errors.Is(err, ErrCaddyHeld):
		response.Error(c, http.StatusConflict, "CONFLICT", "This caddy was just picked by another golfer")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid step transition")
	case errors.Is(err, ErrUpstream):
		response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Availability is temporarily unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
