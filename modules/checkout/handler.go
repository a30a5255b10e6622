package checkout

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/robbolivercreates/ridecanvas/modules/common/model"
	"github.com/robbolivercreates/ridecanvas/modules/session"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the checkout endpoints.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/checkout/session", h.BeginCheckout).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/checkout/return", h.CompleteReturn).Methods("GET")
	log.Println("✅ Checkout routes registered: /api/checkout/session, /api/checkout/return")
}

// BeginCheckoutRequest carries the full wizard state at the moment of
// purchase; the server snapshots it for the redirect round trip.
type BeginCheckoutRequest struct {
	Snapshot *session.Snapshot `json:"snapshot"`
}

type BeginCheckoutResponse struct {
	Success     bool   `json:"success"`
	CheckoutURL string `json:"checkoutUrl"`
}

// BeginCheckout opens a hosted checkout session for the buyer.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req BeginCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request format")
		return
	}
	if req.Snapshot == nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Missing required field: snapshot")
		return
	}

	checkoutURL, err := h.service.BeginCheckout(r.Context(), req.Snapshot)
	if err != nil {
		log.Printf("❌ Failed to begin checkout: %v", err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodePaymentFailed, "Could not start checkout. Please try again.")
		return
	}

	model.WriteJSON(w, http.StatusOK, BeginCheckoutResponse{Success: true, CheckoutURL: checkoutURL})
}

type CompleteReturnResponse struct {
	Success bool `json:"success"`
	*ReturnResult
}

// CompleteReturn verifies payment after the redirect back from checkout and
// kicks off the paid renders. Safe to call repeatedly with the same session.
func (h *Handler) CompleteReturn(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Missing required parameter: session_id")
		return
	}

	result, err := h.service.CompleteReturn(r.Context(), sessionID)
	if err != nil {
		log.Printf("❌ Failed to complete checkout return: %v", err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodePaymentFailed, "Payment verification failed. Please refresh or contact support.")
		return
	}

	// Not paid (cancelled, expired, declined): the preview is still valid,
	// the client goes back to the preview step.
	if !result.Paid {
		model.WriteError(w, http.StatusPaymentRequired, model.ErrCodePaymentUnverified, "Payment was not completed. Your preview is still available.")
		return
	}

	model.WriteJSON(w, http.StatusOK, CompleteReturnResponse{Success: true, ReturnResult: result})
}
