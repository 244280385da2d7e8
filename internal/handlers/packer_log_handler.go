package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/internal/storage"
	"warehouse-backend/pkg/utils"
)

const maxPhotoBytes = 10 << 20 // 10 MB per photo

type PackerLogHandler struct {
	Repo      *repositories.PackerLogRepository
	Photos    *storage.PhotoStore
	Directory *services.StaffDirectoryService
}

func NewPackerLogHandler(repo *repositories.PackerLogRepository, photos *storage.PhotoStore, directory *services.StaffDirectoryService) *PackerLogHandler {
	return &PackerLogHandler{Repo: repo, Photos: photos, Directory: directory}
}

func (h *PackerLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
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
	h.Directory.DecoratePackerLogs(r.Context(), logs)
	if logs == nil {
		logs = []*models.PackerLogWithOrder{}
	}
	utils.JSON(w, http.StatusOK, logs)
}

// CreateLog records a pack event directly, bypassing scan classification.
// Used by the mobile app which already knows what it scanned.
func (h *PackerLogHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePackerLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ShippingTrackingNumber == "" || req.PackedBy == 0 {
		utils.Error(w, http.StatusBadRequest, "shippingTrackingNumber and packedBy are required")
		return
	}

	trackingType := req.TrackingType
	if trackingType == "" {
		trackingType = models.TrackingTypeOrders
	}

	log := &models.PackerLog{
		ShippingTrackingNumber: req.ShippingTrackingNumber,
		PackedBy:               req.PackedBy,
		PackDateTime:           req.PackDateTime,
		TrackingType:           trackingType,
		PackerPhotosURL:        req.PackerPhotosURL,
	}
	if err := h.Repo.Create(r.Context(), log); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.InvalidateScanCaches(r.Context())
	utils.JSON(w, http.StatusCreated, log)
}

// UpdateLog replaces the photo set on a pack event. The mobile app sends the
// full list after the user reorders or removes photos.
func (h *PackerLogHandler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     int                  `json:"id"`
		Photos []models.PackerPhoto `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID <= 0 {
		utils.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.Repo.UpdatePhotos(r.Context(), req.ID, req.Photos); err != nil {
		utils.Error(w, http.StatusNotFound, "pack event not found")
		return
	}
	cache.InvalidateScanCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *PackerLogHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, "pack event not found")
		return
	}
	cache.InvalidateScanCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// UploadPhoto attaches one photo to a pack event. Multipart field "photo".
func (h *PackerLogHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.Photos == nil {
		utils.Error(w, http.StatusServiceUnavailable, "photo storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id == 0 {
		id, _ = strconv.Atoi(r.FormValue("logId"))
	}
	if id <= 0 {
		utils.Error(w, http.StatusBadRequest, "logId is required")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(data) > maxPhotoBytes {
		utils.Error(w, http.StatusRequestEntityTooLarge, "photo exceeds 10 MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := fmt.Sprintf("packer/%d/%d-%s", id, time.Now().UnixNano(), header.Filename)
	url, err := h.Photos.Upload(r.Context(), key, data, contentType)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	photo := models.PackerPhoto{
		URL:        url,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Repo.AppendPhoto(r.Context(), id, photo); err != nil {
		utils.Error(w, http.StatusNotFound, "pack event not found")
		return
	}
	cache.InvalidateScanCaches(r.Context())
	utils.JSON(w, http.StatusOK, photo)
}
