package checkout

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func webhookRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(service, "whsec_test")
	h.RegisterWebhook(r.Group("/"))
	return r
}

func postWebhook(t *testing.T, router *gin.Engine, payload, signature string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkout/webhook", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	service := newCheckoutService(new(MockGateway), new(MockBookingStore), snapshots, new(MockSlotChecker), new(MockHoldRegistry))
	router := webhookRouter(service)

	payload := `{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_1"}}}`
	w := postWebhook(t, router, payload, signPayload(t, []byte(payload), "whsec_wrong", time.Now()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid signature")
	snapshots.AssertNotCalled(t, "GetByCheckoutID", mock.Anything, mock.Anything)
}

func TestWebhook_IgnoresOtherEventTypes(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	service := newCheckoutService(new(MockGateway), new(MockBookingStore), snapshots, new(MockSlotChecker), new(MockHoldRegistry))
	router := webhookRouter(service)

	payload := `{"type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`
	w := postWebhook(t, router, payload, signPayload(t, []byte(payload), "whsec_test", time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	snapshots.AssertNotCalled(t, "GetByCheckoutID", mock.Anything, mock.Anything)
}

func TestWebhook_ValidationFailureReturnsDetails(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snap := reviewSnapshot()
	snap.Draft.Players = 0
	snapshots.On("GetByCheckoutID", mock.Anything, "cs_test_1").Return(snap, nil)

	service := newCheckoutService(new(MockGateway), new(MockBookingStore), snapshots, new(MockSlotChecker), new(MockHoldRegistry))
	router := webhookRouter(service)

	payload := `{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_1"}}}`
	w := postWebhook(t, router, payload, signPayload(t, []byte(payload), "whsec_test", time.Now()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), "details")
}

func TestWebhook_CommitsOnCompletedSession(t *testing.T) {
	snapshots := new(MockSnapshotStore)
	snap := reviewSnapshot()
	snapshots.On("GetByCheckoutID", mock.Anything, "cs_test_1").Return(snap, nil)
	snapshots.On("Delete", mock.Anything, "user:1").Return(nil)

	bookings := new(MockBookingStore)
	bookings.On("CreateBooked", mock.Anything, mock.Anything).Return(nil)

	holds := new(MockHoldRegistry)
	holds.On("ReleaseAll", snap.Draft.SlotKey(), "holder-token").Return()

	service := newCheckoutService(new(MockGateway), bookings, snapshots, new(MockSlotChecker), holds)
	router := webhookRouter(service)

	payload := `{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_1"}}}`
	w := postWebhook(t, router, payload, signPayload(t, []byte(payload), "whsec_test", time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	bookings.AssertExpectations(t)
}
