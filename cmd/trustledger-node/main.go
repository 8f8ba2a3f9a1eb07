package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vocdoni/trustledger/api"
	"github.com/vocdoni/trustledger/db/metadb"
	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/storage"
	"github.com/vocdoni/trustledger/trust"
)

// Services holds all the running services
type Services struct {
	Storage *storage.Storage
	Trust   *trust.Service
	API     *api.API
}

func main() {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	log.Init(cfg.Log.Level, cfg.Log.Output)
	log.Infow("starting trustledger-node", "version", Version)

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup services
	services, err := setupServices(cfg)
	if err != nil {
		log.Fatalf("Failed to setup services: %v", err)
	}
	defer shutdownServices(services)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}

// setupServices initializes and starts all required services
func setupServices(cfg *Config) (*Services, error) {
	services := &Services{}

	// Initialize the ledger database
	log.Infow("initializing storage", "datadir", cfg.Datadir, "type", cfg.DB.Type)
	database, err := metadb.New(cfg.DB.Type, cfg.Datadir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	services.Storage = storage.New(database)

	// Load or generate the system encryption keypair
	publicKey, privateKey, err := services.Storage.FetchOrGenerateEncryptionKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption keys: %w", err)
	}
	log.Infow("system encryption key ready", "publicKey", publicKey.String())

	// Initialize the cryptographic engine
	eng, err := engine.New(publicKey, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	// Initialize the trust service
	services.Trust = trust.New(services.Storage, eng, trust.LogNotifier{})

	// Start the API service
	log.Infow("starting API service", "host", cfg.API.Host, "port", cfg.API.Port)
	services.API, err = api.New(&api.APIConfig{
		Host:        cfg.API.Host,
		Port:        cfg.API.Port,
		Service:     services.Trust,
		Reencryptor: engine.NewReencryptionService(eng, services.Storage),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start API service: %w", err)
	}

	log.Info("trustledger-node is running, ready to record trust events!")
	return services, nil
}

// shutdownServices gracefully shuts down all services
func shutdownServices(services *Services) {
	if services == nil {
		return
	}
	if services.Storage != nil {
		services.Storage.Close()
	}
}
