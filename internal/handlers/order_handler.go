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

type OrderHandler struct {
	Service *services.OrderService
	Print   *services.PrintService
}

func NewOrderHandler(s *services.OrderService, print *services.PrintService) *OrderHandler {
	return &OrderHandler{Service: s, Print: print}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	orders, err := h.Service.ListOrders(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	order, err := h.Service.GetOrder(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "order not found")
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) AssignOrders(w http.ResponseWriter, r *http.Request) {
	var req models.AssignOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.AssignOrders(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"updated": updated})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *OrderHandler) SubmitShipped(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitShippedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.Service.SubmitShipped(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateField(r.Context(), id, req.Field, req.Value); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"field": req.Field, "value": req.Value})
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id == 0 {
		id, _ = strconv.Atoi(r.URL.Query().Get("id"))
	}
	if id <= 0 {
		utils.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.Service.DeleteOrder(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, "order not found")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// PatchShipped updates a feed row in place: status change, a whitelisted
// field edit, or both in one request.
func (h *OrderHandler) PatchShipped(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
		Field  string `json:"field"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID <= 0 {
		utils.Error(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Status == "" && req.Field == "" {
		utils.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Status != "" {
		if err := h.Service.UpdateStatus(r.Context(), req.ID, req.Status); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Field != "" {
		if err := h.Service.UpdateField(r.Context(), req.ID, req.Field, req.Value); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// PackingSlip streams the PDF slip for one order. The id comes from the path
// or, for the print button on the dashboard, the orderId query parameter.
func (h *OrderHandler) PackingSlip(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id == 0 {
		id, _ = strconv.Atoi(r.URL.Query().Get("orderId"))
	}
	if id <= 0 {
		utils.Error(w, http.StatusBadRequest, "orderId is required")
		return
	}

	pdf, err := h.Print.PackingSlip(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=packing-slip-"+strconv.Itoa(id)+".pdf")
	w.Write(pdf)
}
