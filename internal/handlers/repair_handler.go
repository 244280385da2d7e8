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

type RepairHandler struct {
	Service *services.RepairService
	Print   *services.PrintService
}

func NewRepairHandler(s *services.RepairService, print *services.PrintService) *RepairHandler {
	return &RepairHandler{Service: s, Print: print}
}

func (h *RepairHandler) ListRepairs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	repairs, err := h.Service.List(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if repairs == nil {
		repairs = []*models.Repair{}
	}
	utils.JSON(w, http.StatusOK, repairs)
}

func (h *RepairHandler) GetRepair(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	repair, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "repair not found")
		return
	}
	utils.JSON(w, http.StatusOK, repair)
}

func (h *RepairHandler) CreateRepair(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	repair, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, repair)
}

func (h *RepairHandler) UpdateRepair(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	repair, err := h.Service.Update(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, repair)
}

// PrintTicket streams the repair intake ticket PDF.
func (h *RepairHandler) PrintTicket(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id == 0 {
		id, _ = strconv.Atoi(r.URL.Query().Get("id"))
	}
	if id <= 0 {
		utils.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	pdf, err := h.Print.RepairTicket(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=repair-ticket-"+strconv.Itoa(id)+".pdf")
	w.Write(pdf)
}
