package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/config"
	"github.com/bl4ckh4nd/simplecrm/internal/database"
	"github.com/bl4ckh4nd/simplecrm/internal/handlers"
	"github.com/bl4ckh4nd/simplecrm/internal/jtl"
	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"github.com/bl4ckh4nd/simplecrm/internal/store"
	"github.com/bl4ckh4nd/simplecrm/internal/sync"
	"github.com/bl4ckh4nd/simplecrm/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Deal{},
		&models.Task{},
		&models.MetaEntry{},
		&models.SyncRecordError{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	st := store.New(db)

	// 4. Status reporter + websocket event bridge
	reporter := sync.NewReporter(st)
	reporter.Initialize(context.Background())

	hub := websocket.NewHub()
	go hub.Run()

	events, unsubscribe := reporter.Subscribe()
	go func() {
		for ev := range events {
			hub.Broadcast(ev)
		}
	}()

	// 5. JTL Sync Service (Background)
	var syncService *sync.Service
	if cfg.JTL.Host == "" {
		log.Println("JTL sync disabled: JTL_HOST not configured")
		syncService = sync.NewService(nil, st, reporter, 0)
	} else {
		client, err := jtl.NewClient(cfg.JTL)
		if err != nil {
			log.Fatalf("Failed to connect to JTL database: %v", err)
		}
		defer client.Close()

		syncService = sync.NewService(client, st, reporter, time.Duration(cfg.JTL.SyncInterval)*time.Minute)
		syncService.Start()
	}

	// 6. HTTP router and server
	router := handlers.NewRouter(st, syncService, reporter, hub, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // sync runs answer synchronously
	}

	go func() {
		log.Printf("🌐 SimpleCRM API listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")

	syncService.Stop()
	unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("⚠️ Database shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
