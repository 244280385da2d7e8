package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"warehouse-backend/internal/cache"
)

type HealthChecker struct {
	db *pgxpool.Pool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Redis    string         `json:"redis"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// SystemStatus is the extended payload of /health/system: host resource use
// plus database size and connection counts.
type SystemStatus struct {
	HealthStatus
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
	DBConnections int     `json:"db_connections"`
	DBSize        string  `json:"db_size"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

// CheckBasic is the load-balancer probe: database up or not. Redis being down
// degrades caching but never the status, so it is reported but not scored.
func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	redisStatus := "healthy"
	if !cache.IsHealthy() {
		redisStatus = "unavailable"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    redisStatus,
	}
}

// CheckSystem collects host and database resource stats for the admin
// dashboard.
func (h *HealthChecker) CheckSystem(ctx context.Context) SystemStatus {
	st := SystemStatus{HealthStatus: h.CheckBasic()}

	cpuPercents, _ := cpu.Percent(0, false)
	if len(cpuPercents) > 0 {
		st.CPUPercent = cpuPercents[0]
	}

	if memStats, err := mem.VirtualMemory(); err == nil {
		st.MemoryPercent = memStats.UsedPercent
		st.MemoryUsed = formatBytes(memStats.Used)
		st.MemoryTotal = formatBytes(memStats.Total)
	}

	if diskStats, err := disk.Usage("/"); err == nil {
		st.DiskPercent = diskStats.UsedPercent
		st.DiskUsed = formatBytes(diskStats.Used)
		st.DiskTotal = formatBytes(diskStats.Total)
	}

	qctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	h.db.QueryRow(qctx, "SELECT count(*) FROM pg_stat_activity").Scan(&st.DBConnections)

	var dbSizeBytes int64
	h.db.QueryRow(qctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)
	st.DBSize = formatBytes(uint64(dbSizeBytes))

	return st
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
