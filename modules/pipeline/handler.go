package pipeline

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
	"github.com/robbolivercreates/ridecanvas/modules/common/model"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the preview endpoint.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/preview", h.RenderPreview).Methods("POST", "OPTIONS")
	log.Println("✅ Pipeline routes registered: /api/preview")
}

// PreviewRequest carries the wizard state needed for the free preview. The
// client holds this state; the server persists nothing before checkout.
type PreviewRequest struct {
	CorrelationID string                   `json:"correlationId"`
	PhotoBase64   string                   `json:"photoBase64"`
	Analysis      *analyze.VehicleAnalysis `json:"analysis"`
	Config        compose.GenerationConfig `json:"config"`
}

type PreviewResponse struct {
	Success     bool   `json:"success"`
	Format      string `json:"format"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// RenderPreview generates the free phone-format preview.
func (h *Handler) RenderPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request format")
		return
	}

	if req.PhotoBase64 == "" || req.Analysis == nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Missing required fields: photoBase64, analysis")
		return
	}
	if err := req.Analysis.Validate(); err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid analysis payload")
		return
	}
	if err := req.Config.Validate(req.Analysis); err != nil {
		log.Printf("❌ Invalid generation config: %v", err)
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	log.Printf("🎨 Preview requested: %s (correlation %s)", req.Analysis.VehicleName(), req.CorrelationID)

	preview, err := h.service.RenderPreview(r.Context(), req.PhotoBase64, req.Analysis, req.Config)
	if err != nil {
		log.Printf("❌ Preview render failed: %v", err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodeRenderFailed, "Artwork generation failed. Please try again.")
		return
	}

	model.WriteJSON(w, http.StatusOK, PreviewResponse{
		Success:     true,
		Format:      preview.Format,
		ImageBase64: preview.Base64(),
		MimeType:    preview.MimeType,
	})
}
