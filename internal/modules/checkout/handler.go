package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"golfclub/internal/modules/draft"
	"golfclub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const webhookTolerance = 5 * time.Minute

type Handler struct {
	service       *Service
	webhookSecret string
}

func NewHandler(service *Service, webhookSecret string) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Submit)
	rg.GET("/checkout/by-session/:sessionID", h.BySession)
}

func (h *Handler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/checkout/webhook", h.Webhook)
}

func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetInt64("user_id")
	out, err := h.service.Submit(c.Request.Context(), draft.SessionKey(userID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// BySession is hit by the golfer's browser after the provider redirect.
// The webhook commit may still be in flight, so the service polls a
// bounded number of times before reporting "not yet".
func (h *Handler) BySession(c *gin.Context) {
	userID := c.GetInt64("user_id")
	sessionID := c.Param("sessionID")

	b, err := h.service.Reconcile(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable payload")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := VerifyWebhookSignature(payload, sig, h.webhookSecret, webhookTolerance); err != nil {
		log.Printf("level=error msg=webhook signature rejected err=%v", err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed event")
		return
	}
	if event.Type != "checkout.session.completed" {
		response.Success(c, http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.service.ConfirmSession(c.Request.Context(), event.Data.Object.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// nothing to commit for this session; acknowledge so the
			// provider stops redelivering
			response.Success(c, http.StatusOK, gin.H{"received": true})
			return
		}
		if errors.Is(err, ErrValidation) {
			log.Printf("level=error msg=webhook draft failed commit validation session_id=%s err=%v", event.Data.Object.ID, err)
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Draft failed commit validation", err.Error())
			return
		}
		log.Printf("level=error msg=webhook commit failed session_id=%s err=%v", event.Data.Object.ID, err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to commit booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No draft ready for checkout")
	case errors.Is(err, ErrNotYetAvailable):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking is not confirmed yet; try again shortly")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "The slot or a selected caddy is no longer available")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "This checkout session belongs to another golfer")
	case errors.Is(err, ErrUpstream):
		response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Payment provider is temporarily unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
