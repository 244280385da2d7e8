package handlers

import (
	"encoding/json"
	"net/http"

	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.StaffService
}

func NewAuthHandler(s *services.StaffService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login authenticates an admin by employee id and PIN.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Me returns the identity attached by the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	name, _ := middleware.GetStaffNameFromContext(r.Context())

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"staff_id": id,
		"name":     name,
	})
}
