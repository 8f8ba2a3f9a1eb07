// Package api exposes the trust ledger operations over HTTP with a chi
// router and a coded error catalog.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vocdoni/trustledger/engine"
	"github.com/vocdoni/trustledger/log"
	"github.com/vocdoni/trustledger/trust"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host        string
	Port        int
	Service     *trust.Service
	Reencryptor *engine.ReencryptionService
}

// API type represents the API HTTP server.
type API struct {
	router      *chi.Mux
	service     *trust.Service
	reencryptor *engine.ReencryptionService
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Service == nil {
		return nil, fmt.Errorf("missing trust service instance")
	}
	if conf.Reencryptor == nil {
		return nil, fmt.Errorf("missing re-encryption service instance")
	}
	a := &API{
		service:     conf.Service,
		reencryptor: conf.Reencryptor,
	}
	a.initRouter()
	go func() {
		log.Infow("starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes.
func (a *API) Router() *chi.Mux {
	return a.router
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		httpWriteOK(w)
	})
	// record and history endpoints
	log.Infow("register handler", "endpoint", EventsEndpoint, "method", "POST")
	a.router.Post(EventsEndpoint, a.recordEvent)
	log.Infow("register handler", "endpoint", EventsEndpoint, "method", "GET", "parameters", "start,end")
	a.router.Get(EventsEndpoint, a.eventRange)
	log.Infow("register handler", "endpoint", EventByIndexEndpoint, "method", "GET")
	a.router.Get(EventByIndexEndpoint, a.eventByIndex)
	// aggregate endpoints
	log.Infow("register handler", "endpoint", TotalEndpoint, "method", "GET")
	a.router.Get(TotalEndpoint, a.total)
	log.Infow("register handler", "endpoint", AverageEndpoint, "method", "GET")
	a.router.Get(AverageEndpoint, a.average)
	log.Infow("register handler", "endpoint", CountEndpoint, "method", "GET")
	a.router.Get(CountEndpoint, a.eventCount)
	log.Infow("register handler", "endpoint", HistoryLengthEndpoint, "method", "GET")
	a.router.Get(HistoryLengthEndpoint, a.historyLength)
	log.Infow("register handler", "endpoint", ActivityEndpoint, "method", "GET")
	a.router.Get(ActivityEndpoint, a.lastActivity)
	// statistics endpoints
	log.Infow("register handler", "endpoint", StatsEndpoint, "method", "GET")
	a.router.Get(StatsEndpoint, a.liveStatistics)
	log.Infow("register handler", "endpoint", StatsCachedEndpoint, "method", "GET")
	a.router.Get(StatsCachedEndpoint, a.cachedStatistics)
	// batch validation endpoint
	log.Infow("register handler", "endpoint", ValidateEndpoint, "method", "POST")
	a.router.Post(ValidateEndpoint, a.validateBatch)
	// reveal protocol endpoint
	log.Infow("register handler", "endpoint", RevealEndpoint, "method", "POST")
	a.router.Post(RevealEndpoint, a.reveal)
}
