package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

type TechLogHandler struct {
	Repo      *repositories.TechSerialRepository
	Directory *services.StaffDirectoryService
}

func NewTechLogHandler(repo *repositories.TechSerialRepository, directory *services.StaffDirectoryService) *TechLogHandler {
	return &TechLogHandler{Repo: repo, Directory: directory}
}

func (h *TechLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := h.Repo.ListWithOrders(r.Context(), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Directory.DecorateTechLogs(r.Context(), logs)
	if logs == nil {
		logs = []*models.TechLogWithOrder{}
	}
	utils.JSON(w, http.StatusOK, logs)
}

// ListByTracking returns every test event for one tracking number, oldest
// first, matching the serial order shown on the feed.
func (h *TechLogHandler) ListByTracking(w http.ResponseWriter, r *http.Request) {
	trackingNo := r.URL.Query().Get("tracking")
	if trackingNo == "" {
		utils.Error(w, http.StatusBadRequest, "tracking parameter is required")
		return
	}

	serials, err := h.Repo.ListByTracking(r.Context(), trackingNo)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if serials == nil {
		serials = []models.TechSerialNumber{}
	}
	utils.JSON(w, http.StatusOK, serials)
}

func (h *TechLogHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, "test event not found")
		return
	}
	cache.InvalidateScanCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
