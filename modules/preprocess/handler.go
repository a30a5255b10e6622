package preprocess

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
	"github.com/robbolivercreates/ridecanvas/modules/common/model"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes wires the upload endpoint.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/upload", h.Upload).Methods("POST", "OPTIONS")
	log.Println("✅ Preprocess routes registered: /api/upload")
}

// UploadRequest carries the raw photo as a data URL or bare base64.
type UploadRequest struct {
	PhotoDataURL string `json:"photoDataUrl"`
}

type UploadResponse struct {
	Success     bool   `json:"success"`
	PhotoBase64 string `json:"photoBase64"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Quality     int    `json:"quality"`
}

// Upload normalizes an uploaded photo into the bounded JPEG every later
// stage consumes.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request format")
		return
	}
	if req.PhotoDataURL == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Missing required field: photoDataUrl")
		return
	}

	raw, err := DecodeDataURL(req.PhotoDataURL)
	if err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Photo is not valid base64 data")
		return
	}

	cfg := config.GetConfig()
	result, err := Compress(raw, cfg.MaxUploadDimension, cfg.MaxUploadBytes)
	if err != nil {
		var decodeErr *ErrDecode
		if errors.As(err, &decodeErr) {
			model.WriteError(w, http.StatusUnsupportedMediaType, model.ErrCodeUnsupportedImage,
				"This image format is not supported. Please upload a JPEG, PNG, or WebP photo.")
			return
		}
		log.Printf("❌ Preprocess failed: %v", err)
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "Photo processing failed. Please try again.")
		return
	}

	log.Printf("✅ Photo preprocessed: %dx%d q=%d (%d bytes)", result.Width, result.Height, result.Quality, len(result.JPEG))

	model.WriteJSON(w, http.StatusOK, UploadResponse{
		Success:     true,
		PhotoBase64: result.Base64(),
		Width:       result.Width,
		Height:      result.Height,
		Quality:     result.Quality,
	})
}
