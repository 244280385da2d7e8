package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

// ShippedHandler serves the combined shipped feed, the tracking diagnostics
// endpoint, exceptions, and the legacy archive.
type ShippedHandler struct {
	Service *services.ReconcileService
}

func NewShippedHandler(s *services.ReconcileService) *ShippedHandler {
	return &ShippedHandler{Service: s}
}

func (h *ShippedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	rows, err := h.Service.Feed(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []*models.ShippedRow{}
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ShippedHandler) CheckTracking(w http.ResponseWriter, r *http.Request) {
	check, err := h.Service.CheckTracking(r.Context(), r.URL.Query().Get("tracking"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, check)
}

func (h *ShippedHandler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	exceptions, err := h.Service.ListExceptions(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if exceptions == nil {
		exceptions = []*models.OrderException{}
	}
	utils.JSON(w, http.StatusOK, exceptions)
}

func (h *ShippedHandler) ResolveException(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.ResolveException(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, "exception not found")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"resolved": true})
}

func (h *ShippedHandler) SweepExceptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.SweepExceptions(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *ShippedHandler) ListLegacy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	records, err := h.Service.LegacyList(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*models.LegacyShippedRecord{}
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *ShippedHandler) UpdateLegacyStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.LegacyUpdateStatus(r.Context(), id, req.Status); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
