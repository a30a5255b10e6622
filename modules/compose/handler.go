package compose

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
	"github.com/robbolivercreates/ridecanvas/modules/common/model"
)

// Handler bootstraps the customization step: it runs the vehicle analysis
// and returns it together with the option lists and default configuration
// the wizard renders.
type Handler struct {
	analyzer *analyze.Service
}

func NewHandler(analyzer *analyze.Service) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes wires the analysis endpoint.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/analyze", h.Analyze).Methods("POST", "OPTIONS")
	log.Println("✅ Compose routes registered: /api/analyze")
}

type AnalyzeRequest struct {
	PhotoBase64 string `json:"photoBase64"`
}

type AnalyzeResponse struct {
	Success       bool                     `json:"success"`
	Analysis      *analyze.VehicleAnalysis `json:"analysis"`
	StanceOptions []string                 `json:"stanceOptions"`
	DefaultConfig GenerationConfig         `json:"defaultConfig"`
	Formats       []string                 `json:"formats"`
}

// Analyze identifies the vehicle in a preprocessed photo and returns the
// customization options for it.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request format")
		return
	}
	if req.PhotoBase64 == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Missing required field: photoBase64")
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.PhotoBase64)
	if err != nil {
		log.Printf("❌ Analysis failed: %v", err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodeAnalysisFailed,
			"We couldn't read that photo. Please try again or use a different one.")
		return
	}

	model.WriteJSON(w, http.StatusOK, AnalyzeResponse{
		Success:       true,
		Analysis:      analysis,
		StanceOptions: StanceOptions(analysis.IsOffroad),
		DefaultConfig: DefaultConfig(analysis),
		Formats:       Formats(),
	})
}
