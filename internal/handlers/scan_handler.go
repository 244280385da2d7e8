package handlers

import (
	"encoding/json"
	"net/http"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

// ScanHandler takes raw station input: packer scans, tech serial entry and
// FNSKU lookups.
type ScanHandler struct {
	Service *services.ScanService
}

func NewScanHandler(s *services.ScanService) *ScanHandler {
	return &ScanHandler{Service: s}
}

func (h *ScanHandler) PackerScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input    string `json:"input"`
		PackerID int    `json:"packerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.PackerScan(r.Context(), req.Input, req.PackerID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *ScanHandler) AddSerial(w http.ResponseWriter, r *http.Request) {
	var req models.AddSerialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.AddSerial(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusConflict, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *ScanHandler) ScanTracking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tracking string `json:"tracking"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.ScanTracking(r.Context(), req.Tracking)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *ScanHandler) UndoLast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tracking string `json:"tracking"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	removed, err := h.Service.UndoLast(r.Context(), req.Tracking)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, removed)
}

func (h *ScanHandler) LookupFnsku(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.LookupFnsku(r.Context(), r.URL.Query().Get("fnsku"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
