package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

// SyncHandler triggers marketplace syncs and manages eBay accounts. Sync
// endpoints run inline; the dashboard shows a spinner and the runs finish in
// seconds.
type SyncHandler struct {
	Sync      *services.SyncService
	Integrity *services.IntegrityService
	Accounts  *repositories.EbayAccountRepository
}

func NewSyncHandler(sync *services.SyncService, integrity *services.IntegrityService, accounts *repositories.EbayAccountRepository) *SyncHandler {
	return &SyncHandler{Sync: sync, Integrity: integrity, Accounts: accounts}
}

// SyncEbay backfills orders from every active account. ?days=N sets the
// modified-since window, default 7.
func (h *SyncHandler) SyncEbay(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 || days > 90 {
		days = 7
	}

	results, err := h.Sync.SyncEbay(r.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, results)
}

func (h *SyncHandler) SyncEcwid(w http.ResponseWriter, r *http.Request) {
	pages, _ := strconv.Atoi(r.URL.Query().Get("pages"))

	stats, err := h.Sync.SyncEcwid(r.Context(), pages)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

func (h *SyncHandler) SyncShipStation(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 || days > 90 {
		days = 14
	}

	stats, err := h.Sync.SyncShipStation(r.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// RunIntegrity runs the full serial reconciliation pass. Always returns 200
// with per-step results; a failed step is reported in the body.
func (h *SyncHandler) RunIntegrity(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Integrity.Run(r.Context()))
}

func (h *SyncHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.ListActive(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []*models.EbayAccount{}
	}
	utils.JSON(w, http.StatusOK, accounts)
}

// UpsertAccount registers or refreshes one eBay account. Admin only; the
// refresh token is write-only and never echoed back.
func (h *SyncHandler) UpsertAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountName  string `json:"account_name"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountName == "" || req.RefreshToken == "" {
		utils.Error(w, http.StatusBadRequest, "account_name and refresh_token are required")
		return
	}

	account := &models.EbayAccount{
		AccountName:  req.AccountName,
		RefreshToken: req.RefreshToken,
	}
	if err := h.Accounts.Upsert(r.Context(), account); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	account.IsActive = true
	utils.JSON(w, http.StatusOK, account)
}

func (h *SyncHandler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.Accounts.Deactivate(r.Context(), name); err != nil {
		utils.Error(w, http.StatusNotFound, "account not found")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"deactivated": true})
}
