package handlers

import (
	"encoding/json"
	"net/http"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

// SkuHandler serves SKU stock counts and the FNSKU catalog upload.
type SkuHandler struct {
	Repo    *repositories.SkuRepository
	Imports *services.ImportService
}

func NewSkuHandler(repo *repositories.SkuRepository, imports *services.ImportService) *SkuHandler {
	return &SkuHandler{Repo: repo, Imports: imports}
}

func (h *SkuHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.Repo.ListStock(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stock == nil {
		stock = []*models.SkuStock{}
	}
	utils.JSON(w, http.StatusOK, stock)
}

func (h *SkuHandler) GetFnsku(w http.ResponseWriter, r *http.Request) {
	fnsku := r.URL.Query().Get("fnsku")
	if fnsku == "" {
		utils.Error(w, http.StatusBadRequest, "fnsku parameter is required")
		return
	}

	f, err := h.Repo.GetFnsku(r.Context(), fnsku)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if f == nil {
		utils.Error(w, http.StatusNotFound, "fnsku not found")
		return
	}
	utils.JSON(w, http.StatusOK, f)
}

// UploadFnskus bulk-loads the FNSKU spreadsheet export. Admin only.
func (h *SkuHandler) UploadFnskus(w http.ResponseWriter, r *http.Request) {
	var req models.UploadFnskusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.Imports.ImportFnskus(r.Context(), req.Fnskus)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"imported": n})
}
