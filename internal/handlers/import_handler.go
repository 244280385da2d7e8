package handlers

import (
	"encoding/json"
	"net/http"

	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

type ImportHandler struct {
	Service *services.ImportService
}

func NewImportHandler(s *services.ImportService) *ImportHandler {
	return &ImportHandler{Service: s}
}

// ImportSheet replaces one spreadsheet mirror table. Admin only.
func (h *ImportHandler) ImportSheet(w http.ResponseWriter, r *http.Request) {
	var req services.SheetImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.Service.ImportSheet(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"table": req.Table,
		"rows":  count,
	})
}
