// @title			Invoice Manager API
// @version		1.0
// @description	CRUD backend for invoices and their attached files.
//
// @host		localhost:8080
// @BasePath	/
package main

import (
	"log"

	"github.com/rizkyfm/invoice-manager-service/internal/config"
	"github.com/rizkyfm/invoice-manager-service/internal/database"
	"github.com/rizkyfm/invoice-manager-service/internal/handler"
	"github.com/rizkyfm/invoice-manager-service/internal/repository"
	"github.com/rizkyfm/invoice-manager-service/internal/server"
	"github.com/rizkyfm/invoice-manager-service/internal/service"
	"github.com/rizkyfm/invoice-manager-service/internal/storage"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the database and apply migrations
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Initialize object storage
	log.Println("Initializing object storage...")
	blobStorage, err := storage.NewS3Storage(&storage.Config{
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		AccessKeySecret: cfg.S3AccessKeySecret,
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Wire dependencies: repository -> service -> handler
	invoiceRepo := repository.NewPostgresInvoiceRepository(db.GetPool())
	fileRepo := repository.NewPostgresFileRepository(db.GetPool())

	invoiceService := service.NewInvoiceService(invoiceRepo, fileRepo, blobStorage, cfg.InvoiceDeletePolicy)
	fileService := service.NewFileService(fileRepo, blobStorage)

	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	fileHandler := handler.NewFileHandler(fileService)

	// Create and start the server (blocking call)
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg, invoiceHandler, fileHandler)

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}
