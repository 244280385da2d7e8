package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/db"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/handlers"
	"warehouse-backend/internal/health"
	whttp "warehouse-backend/internal/http"
	"warehouse-backend/internal/marketplace"
	"warehouse-backend/internal/middleware"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/internal/storage"
	"warehouse-backend/migrations"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Redis is optional; a failed Init degrades caching, nothing else.
	if err := cache.Init(); err != nil {
		log.Printf("[Main] Redis unavailable, caching disabled: %v", err)
	}

	photoStore, err := storage.NewPhotoStore(context.Background(), cfg)
	if err != nil {
		log.Printf("[Main] Photo store unavailable: %v", err)
	}

	// Repositories
	orderRepo := repositories.NewOrderRepository(pool)
	shippedRepo := repositories.NewShippedRepository(pool)
	packerLogRepo := repositories.NewPackerLogRepository(pool)
	techSerialRepo := repositories.NewTechSerialRepository(pool)
	exceptionRepo := repositories.NewExceptionRepository(pool)
	staffRepo := repositories.NewStaffRepository(pool)
	repairRepo := repositories.NewRepairRepository(pool)
	legacyRepo := repositories.NewLegacyShippedRepository(pool)
	skuRepo := repositories.NewSkuRepository(pool)
	accountRepo := repositories.NewEbayAccountRepository(pool)
	checklistRepo := repositories.NewChecklistRepository(pool)
	mirrorRepo := repositories.NewMirrorRepository(pool)

	// Events
	bus := events.NewBus()
	hub := events.NewHub(bus)
	go hub.Run()

	// Marketplace clients
	ebayClient := marketplace.NewEbayClient(cfg)
	ecwidClient := marketplace.NewEcwidClient(cfg)
	shipstationClient := marketplace.NewShipStationClient(cfg)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	directory := services.NewStaffDirectoryService(staffRepo)
	orderService := services.NewOrderService(orderRepo, staffRepo, bus)
	scanService := services.NewScanService(orderRepo, packerLogRepo, techSerialRepo, exceptionRepo, skuRepo, directory, bus)
	reconcileService := services.NewReconcileService(shippedRepo, exceptionRepo, legacyRepo, directory, bus)
	syncService := services.NewSyncService(orderRepo, accountRepo, ebayClient, ecwidClient, shipstationClient, bus)
	integrityService := services.NewIntegrityService(syncService, reconcileService, bus)
	printService := services.NewPrintService(orderRepo, repairRepo, techSerialRepo, directory)
	importService := services.NewImportService(mirrorRepo, skuRepo)
	repairService := services.NewRepairService(repairRepo, bus)
	staffService := services.NewStaffService(staffRepo, directory, jwtManager)
	checklistService := services.NewChecklistService(checklistRepo)

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderService, printService)
	shippedHandler := handlers.NewShippedHandler(reconcileService)
	scanHandler := handlers.NewScanHandler(scanService)
	packerLogHandler := handlers.NewPackerLogHandler(packerLogRepo, photoStore, directory)
	techLogHandler := handlers.NewTechLogHandler(techSerialRepo, directory)
	repairHandler := handlers.NewRepairHandler(repairService, printService)
	staffHandler := handlers.NewStaffHandler(staffService)
	authHandler := handlers.NewAuthHandler(staffService)
	skuHandler := handlers.NewSkuHandler(skuRepo, importService)
	checklistHandler := handlers.NewChecklistHandler(checklistService)
	syncHandler := handlers.NewSyncHandler(syncService, integrityService, accountRepo)
	importHandler := handlers.NewImportHandler(importService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool), hub)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	router := whttp.NewRouter(
		cfg,
		orderHandler,
		shippedHandler,
		scanHandler,
		packerLogHandler,
		techLogHandler,
		repairHandler,
		staffHandler,
		authHandler,
		skuHandler,
		checklistHandler,
		syncHandler,
		importHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("[Main] Server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
