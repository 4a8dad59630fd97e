package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/config"
	"github.com/Uday-Parmar07/AI-Trip-Planner/db"
	"github.com/Uday-Parmar07/AI-Trip-Planner/handlers"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services/agent"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("[INFO] Preparing database...")
	tripRepo, err := db.OpenTripRepository(cfg.DatabaseURL, db.PoolConfig{
		PoolSize:    cfg.DatabasePoolSize,
		MaxOverflow: cfg.DatabaseMaxOverflow,
		PoolTimeout: cfg.DatabasePoolTimeout,
		PoolRecycle: cfg.DatabasePoolRecycle,
		SSLMode:     cfg.DatabaseSSLMode,
		SSLRootCert: cfg.DatabaseSSLRootCert,
	})
	if err != nil {
		log.Fatalf("Failed to initialize trip database: %v", err)
	}
	defer tripRepo.Close()
	log.Printf("[INFO] Database ready")

	tripService := services.NewTripService(tripRepo)
	tripRecorder := services.NewTripRecorder(tripService, services.DefaultRecorderQueueSize, services.DefaultRecordTimeout)

	var processor handlers.QueryProcessor
	if agentService, err := newAgentService(cfg); err != nil {
		log.Printf("[WARN] Failed to initialize AI agent: %v", err)
	} else {
		processor = agentService
		log.Printf("[INFO] AI agent initialized successfully with %s model %s", cfg.ModelProvider, cfg.ModelName())
	}

	router := newRouter(
		handlers.NewQueryHandler(processor, tripRecorder, cfg.RequestTimeout),
		handlers.NewTripHandler(tripService),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[INFO] Shutting down application")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server shutdown failed: %v", err)
	}
	if err := tripRecorder.Close(ctx); err != nil {
		log.Printf("[ERROR] Pending trips were not saved: %v", err)
	}
}

func newAgentService(cfg *config.Config) (*agent.Service, error) {
	registry, err := agent.NewTravelRegistry(agent.ToolCredentials{
		TavilyAPIKey:         cfg.TavilyAPIKey,
		ExchangeRateAPIKey:   cfg.ExchangeRateAPIKey,
		OpenWeatherMapAPIKey: cfg.OpenWeatherMapAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	model, err := agent.NewModelClient(cfg.ModelProvider, cfg.ModelAPIKey(), cfg.ModelName())
	if err != nil {
		return nil, err
	}

	return agent.NewService(model, registry, agent.Options{
		MaxRounds:        cfg.AgentMaxRounds,
		MaxParallelTools: cfg.MaxParallelTools,
		ModelTimeout:     cfg.ModelTimeout,
		ToolTimeout:      cfg.ToolTimeout,
	}), nil
}

type routeRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

func newRouter(registrars ...routeRegistrar) *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	for _, registrar := range registrars {
		registrar.RegisterRoutes(router)
	}

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/", rootHandler).Methods("GET")
	router.HandleFunc("/api", rootHandler).Methods("GET")

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "AI Agent API is running"})
}
