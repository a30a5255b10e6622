package bundle

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/robbolivercreates/ridecanvas/modules/common/model"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the purchased-art endpoints.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/purchases/{purchaseId}/art", h.GetArtSet).Methods("GET")
	r.HandleFunc("/api/purchases/{purchaseId}/download/{format}", h.DownloadFormat).Methods("GET")
	r.HandleFunc("/api/purchases/{purchaseId}/bundle", h.DownloadBundle).Methods("GET")
	log.Println("✅ Bundle routes registered: /api/purchases/{purchaseId}/...")
}

type ArtSetResponse struct {
	Success     bool     `json:"success"`
	Ready       bool     `json:"ready"`
	VehicleName string   `json:"vehicleName"`
	Formats     []string `json:"formats,omitempty"`
}

// GetArtSet reports whether the paid renders have finished.
func (h *Handler) GetArtSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.lookup(w, r)
	if !ok {
		return
	}

	resp := ArtSetResponse{
		Success:     true,
		Ready:       set.Record != nil,
		VehicleName: set.Purchase.VehicleName,
	}
	if set.Record != nil {
		resp.Formats = compose.Formats()
	}
	model.WriteJSON(w, http.StatusOK, resp)
}

// DownloadFormat streams one format's image as an attachment.
func (h *Handler) DownloadFormat(w http.ResponseWriter, r *http.Request) {
	set, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if set.Record == nil {
		model.WriteError(w, http.StatusConflict, model.ErrCodeRenderFailed, "Artwork is still rendering. Try again shortly.")
		return
	}

	format := mux.Vars(r)["format"]
	data, filename, err := h.service.FetchFormat(r.Context(), set, format)
	if err != nil {
		log.Printf("❌ Format download failed: %v", err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodeInternalError, "Download failed. Please try again.")
		return
	}

	writeAttachment(w, data, filename, set.Record.MimeType)
}

// DownloadBundle streams the full set as one zip archive.
func (h *Handler) DownloadBundle(w http.ResponseWriter, r *http.Request) {
	set, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if set.Record == nil {
		model.WriteError(w, http.StatusConflict, model.ErrCodeRenderFailed, "Artwork is still rendering. Try again shortly.")
		return
	}

	data, filename, err := h.service.BuildZip(r.Context(), set)
	if err != nil {
		log.Printf("❌ Bundle build failed: %v", err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodeInternalError, "Download failed. Please try again.")
		return
	}

	writeAttachment(w, data, filename, "application/zip")
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*ArtSet, bool) {
	purchaseID := mux.Vars(r)["purchaseId"]

	set, err := h.service.Lookup(r.Context(), purchaseID)
	if err != nil {
		log.Printf("❌ Purchase lookup failed for %s: %v", purchaseID, err)
		model.WriteError(w, http.StatusBadGateway, model.ErrCodeInternalError, "Lookup failed. Please try again.")
		return nil, false
	}
	if set == nil {
		model.WriteError(w, http.StatusNotFound, model.ErrCodeNotFound, "Purchase not found")
		return nil, false
	}
	return set, true
}

func writeAttachment(w http.ResponseWriter, data []byte, filename, mimeType string) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
