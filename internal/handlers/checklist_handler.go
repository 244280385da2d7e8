package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

type ChecklistHandler struct {
	Service *services.ChecklistService
}

func NewChecklistHandler(s *services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{Service: s}
}

// ListForDay serves GET /api/checklist?role=&staffId=&date=2006-01-02.
func (h *ChecklistHandler) ListForDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	staffID, _ := strconv.Atoi(q.Get("staffId"))

	var day time.Time
	if dateStr := q.Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	items, err := h.Service.ListForDay(r.Context(), q.Get("role"), staffID, day)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if items == nil {
		items = []*models.ChecklistItem{}
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *ChecklistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Toggle(r.Context(), &req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *ChecklistHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.TaskTemplate
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.CreateTemplate(r.Context(), &t); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, t)
}

func (h *ChecklistHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeleteTemplate(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ChecklistHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Service.ListTags(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	utils.JSON(w, http.StatusOK, tags)
}
