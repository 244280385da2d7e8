package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

// StaffDirectoryService is the single place staff ids resolve to names.
// Tables store ids only; every surface that shows a name goes through here,
// so a rename propagates everywhere at once.
type StaffDirectoryService struct {
	Repo *repositories.StaffRepository

	mu      sync.RWMutex
	names   map[int]string
	loaded  time.Time
	maxAge  time.Duration
}

func NewStaffDirectoryService(repo *repositories.StaffRepository) *StaffDirectoryService {
	return &StaffDirectoryService{
		Repo:   repo,
		names:  make(map[int]string),
		maxAge: 5 * time.Minute,
	}
}

// ResolveName returns the staff name for an id, empty string for nil/zero or
// unknown ids. Unknown ids are not an error: deactivated staff stay in the
// directory, but imports can reference ids that never existed.
func (s *StaffDirectoryService) ResolveName(ctx context.Context, id *int) string {
	if id == nil || *id == 0 {
		return ""
	}

	s.mu.RLock()
	fresh := time.Since(s.loaded) < s.maxAge
	name, ok := s.names[*id]
	s.mu.RUnlock()

	if ok && fresh {
		return name
	}

	if err := s.refresh(ctx); err != nil {
		log.Printf("[StaffDirectory] refresh failed: %v", err)
		return name
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[*id]
}

// refresh reloads the directory from Redis or the database.
func (s *StaffDirectoryService) refresh(ctx context.Context) error {
	if data, ok := cache.GetCached(ctx, cache.StaffDirectoryKey); ok {
		var names map[string]string
		if err := json.Unmarshal(data, &names); err == nil {
			s.store(names)
			return nil
		}
	}

	staff, err := s.Repo.List(ctx, false)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(staff))
	for _, member := range staff {
		names[strconv.Itoa(member.ID)] = member.Name
	}
	s.store(names)

	if data, err := json.Marshal(names); err == nil {
		cache.SetCached(ctx, cache.StaffDirectoryKey, data, 30*time.Minute)
	}
	return nil
}

func (s *StaffDirectoryService) store(names map[string]string) {
	parsed := make(map[int]string, len(names))
	for k, v := range names {
		if id, err := strconv.Atoi(k); err == nil {
			parsed[id] = v
		}
	}
	s.mu.Lock()
	s.names = parsed
	s.loaded = time.Now()
	s.mu.Unlock()
}

// Invalidate drops both cache layers after a staff edit.
func (s *StaffDirectoryService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.loaded = time.Time{}
	s.mu.Unlock()
	cache.InvalidateStaffCache(ctx)
}

// DecorateFeed fills the *_name fields on feed rows.
func (s *StaffDirectoryService) DecorateFeed(ctx context.Context, rows []*models.ShippedRow) {
	for _, row := range rows {
		row.PackedByName = s.ResolveName(ctx, row.PackedBy)
		row.TestedByName = s.ResolveName(ctx, row.TestedBy)
	}
}

// DecoratePackerLogs fills packed_by_name on enriched pack events.
func (s *StaffDirectoryService) DecoratePackerLogs(ctx context.Context, logs []*models.PackerLogWithOrder) {
	for _, l := range logs {
		id := l.PackedBy
		l.PackedByName = s.ResolveName(ctx, &id)
	}
}

// DecorateTechLogs fills tested_by_name on enriched test events.
func (s *StaffDirectoryService) DecorateTechLogs(ctx context.Context, logs []*models.TechLogWithOrder) {
	for _, l := range logs {
		id := l.TestedBy
		l.TestedByName = s.ResolveName(ctx, &id)
	}
}
