package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/handlers"
	"warehouse-backend/internal/middleware"
)

func NewRouter(
	cfg *config.Config,
	orderHandler *handlers.OrderHandler,
	shippedHandler *handlers.ShippedHandler,
	scanHandler *handlers.ScanHandler,
	packerLogHandler *handlers.PackerLogHandler,
	techLogHandler *handlers.TechLogHandler,
	repairHandler *handlers.RepairHandler,
	staffHandler *handlers.StaffHandler,
	authHandler *handlers.AuthHandler,
	skuHandler *handlers.SkuHandler,
	checklistHandler *handlers.ChecklistHandler,
	syncHandler *handlers.SyncHandler,
	importHandler *handlers.ImportHandler,
	healthHandler *handlers.HealthHandler,
	hub *events.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.NewCORS(cfg))
	r.Use(middleware.RequestLogging)
	r.Use(middleware.MetricsMiddleware)

	// Probes and observability
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/health/system", healthHandler.System).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Dashboard event stream
	r.HandleFunc("/api/events", hub.HandleWebSocket).Methods("GET")

	// Login is rate limited; PIN guesses are cheap otherwise.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.Handle("/api/auth/login",
		loginLimiter.Handler(http.HandlerFunc(authHandler.Login))).Methods("POST")
	r.Handle("/api/auth/me",
		authMiddleware.Authenticate(http.HandlerFunc(authHandler.Me))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Orders
	api.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET")
	api.HandleFunc("/orders", orderHandler.SubmitShipped).Methods("POST")
	api.HandleFunc("/orders", orderHandler.DeleteOrder).Methods("DELETE")
	api.HandleFunc("/orders/assign", orderHandler.AssignOrders).Methods("POST")
	api.HandleFunc("/orders/{id:[0-9]+}", orderHandler.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", orderHandler.DeleteOrder).Methods("DELETE")
	api.HandleFunc("/orders/{id:[0-9]+}/status", orderHandler.UpdateStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id:[0-9]+}/field", orderHandler.UpdateField).Methods("PATCH")
	api.HandleFunc("/orders/update-photos", packerLogHandler.UploadPhoto).Methods("POST")
	api.HandleFunc("/packing-slip", orderHandler.PackingSlip).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/packing-slip", orderHandler.PackingSlip).Methods("GET")

	// Combined shipped feed and tracking diagnostics
	api.HandleFunc("/shipped", shippedHandler.Feed).Methods("GET")
	api.HandleFunc("/shipped", orderHandler.PatchShipped).Methods("PATCH")
	api.HandleFunc("/shipped/submit", orderHandler.SubmitShipped).Methods("POST")
	api.HandleFunc("/shipped/legacy", shippedHandler.ListLegacy).Methods("GET")
	api.HandleFunc("/shipped/legacy/{id:[0-9]+}/status", shippedHandler.UpdateLegacyStatus).Methods("POST")
	api.HandleFunc("/shipped/{id:[0-9]+}", orderHandler.GetOrder).Methods("GET")
	api.HandleFunc("/check-tracking", shippedHandler.CheckTracking).Methods("GET")

	// Exceptions
	api.HandleFunc("/orders-exceptions", shippedHandler.ListExceptions).Methods("GET")
	api.HandleFunc("/orders-exceptions/sync", shippedHandler.SweepExceptions).Methods("POST")
	api.HandleFunc("/orders-exceptions/{id:[0-9]+}", shippedHandler.ResolveException).Methods("DELETE")

	// Scan stations (open on the warehouse LAN, no auth)
	api.HandleFunc("/scan/packer", scanHandler.PackerScan).Methods("POST")
	api.HandleFunc("/tech/scan-tracking", scanHandler.ScanTracking).Methods("POST")
	api.HandleFunc("/tech/add-serial", scanHandler.AddSerial).Methods("POST")
	api.HandleFunc("/tech/undo-last", scanHandler.UndoLast).Methods("POST")
	api.HandleFunc("/tech/fnsku", scanHandler.LookupFnsku).Methods("GET")

	// Pack events
	api.HandleFunc("/packerlogs", packerLogHandler.ListLogs).Methods("GET")
	api.HandleFunc("/packerlogs", packerLogHandler.CreateLog).Methods("POST")
	api.HandleFunc("/packerlogs", packerLogHandler.UpdateLog).Methods("PUT")
	api.HandleFunc("/packerlogs/{id:[0-9]+}", packerLogHandler.DeleteLog).Methods("DELETE")
	api.HandleFunc("/packerlogs/{id:[0-9]+}/photos", packerLogHandler.UploadPhoto).Methods("POST")

	// Test events
	api.HandleFunc("/tech-logs", techLogHandler.ListLogs).Methods("GET")
	api.HandleFunc("/tech-logs/by-tracking", techLogHandler.ListByTracking).Methods("GET")
	api.HandleFunc("/tech-logs/{id:[0-9]+}", techLogHandler.DeleteLog).Methods("DELETE")

	// Repair tickets
	api.HandleFunc("/rs", repairHandler.ListRepairs).Methods("GET")
	api.HandleFunc("/rs", repairHandler.CreateRepair).Methods("POST")
	api.HandleFunc("/rs", repairHandler.UpdateRepair).Methods("PATCH")
	api.HandleFunc("/rs/print", repairHandler.PrintTicket).Methods("GET")
	api.HandleFunc("/rs/{id:[0-9]+}", repairHandler.GetRepair).Methods("GET")
	api.HandleFunc("/rs/{id:[0-9]+}/print", repairHandler.PrintTicket).Methods("GET")

	// Staff directory (read is open; stations need it for the picker)
	api.HandleFunc("/staff", staffHandler.ListStaff).Methods("GET")

	// Inventory
	api.HandleFunc("/sku-stock", skuHandler.ListStock).Methods("GET")

	// Checklists
	api.HandleFunc("/checklist", checklistHandler.ListForDay).Methods("GET")
	api.HandleFunc("/checklist/toggle", checklistHandler.Toggle).Methods("POST")
	api.HandleFunc("/tags", checklistHandler.ListTags).Methods("GET")

	// Admin surface. Some admin routes live outside the /api/admin prefix but
	// still need an admin token.
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(authMiddleware.RequireAdmin))
	requireAdmin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAdmin(h)
	}

	r.Handle("/api/staff", requireAdmin(staffHandler.CreateStaff)).Methods("POST")
	r.Handle("/api/staff", requireAdmin(staffHandler.UpdateStaff)).Methods("PUT")
	r.Handle("/api/staff/{id:[0-9]+}", requireAdmin(staffHandler.DeactivateStaff)).Methods("DELETE")
	r.Handle("/api/staff/{id:[0-9]+}/pin", requireAdmin(staffHandler.SetPin)).Methods("POST")

	r.Handle("/api/sync/ebay", requireAdmin(syncHandler.SyncEbay)).Methods("POST")
	r.Handle("/api/sync/ecwid", requireAdmin(syncHandler.SyncEcwid)).Methods("POST")
	r.Handle("/api/sync/shipstation", requireAdmin(syncHandler.SyncShipStation)).Methods("POST")
	r.Handle("/api/integrity/run", requireAdmin(syncHandler.RunIntegrity)).Methods("POST")

	admin.HandleFunc("/ebay-accounts", syncHandler.ListAccounts).Methods("GET")
	admin.HandleFunc("/ebay-accounts", syncHandler.UpsertAccount).Methods("POST")
	admin.HandleFunc("/ebay-accounts/{name}", syncHandler.DeactivateAccount).Methods("DELETE")

	admin.HandleFunc("/fba-fnskus", skuHandler.GetFnsku).Methods("GET")
	admin.HandleFunc("/fba-fnskus", skuHandler.UploadFnskus).Methods("POST")
	admin.HandleFunc("/fba-fnskus/upload", skuHandler.UploadFnskus).Methods("POST")
	admin.HandleFunc("/import-sheets", importHandler.ImportSheet).Methods("POST")

	admin.HandleFunc("/checklist/templates", checklistHandler.CreateTemplate).Methods("POST")
	admin.HandleFunc("/checklist/templates/{id:[0-9]+}", checklistHandler.DeleteTemplate).Methods("DELETE")

	admin.HandleFunc("/health/system", healthHandler.System).Methods("GET")

	return r
}
