package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/robbolivercreates/ridecanvas/modules/analyze"
	"github.com/robbolivercreates/ridecanvas/modules/bundle"
	"github.com/robbolivercreates/ridecanvas/modules/checkout"
	"github.com/robbolivercreates/ridecanvas/modules/common/config"
	"github.com/robbolivercreates/ridecanvas/modules/common/database"
	commonredis "github.com/robbolivercreates/ridecanvas/modules/common/redis"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
	"github.com/robbolivercreates/ridecanvas/modules/pipeline"
	"github.com/robbolivercreates/ridecanvas/modules/preprocess"
	"github.com/robbolivercreates/ridecanvas/modules/progress"
	"github.com/robbolivercreates/ridecanvas/modules/session"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ridecanvas",
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	rdb := commonredis.Connect(cfg)
	if rdb == nil {
		log.Fatal("❌ Failed to connect to Redis")
	}

	db := database.NewClient()
	if db == nil {
		log.Fatal("❌ Failed to create Supabase client")
	}

	store := session.NewStore(rdb)
	hub := progress.NewHub()

	renderService := pipeline.NewService(pipeline.NewGeminiRenderer())
	checkoutService := checkout.NewService(store, db, rdb)
	bundleService := bundle.NewService(db)

	// Paid renders run in the background off the Redis queue.
	go pipeline.StartWorker(rdb, db, hub, renderService)

	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	preprocess.NewHandler().RegisterRoutes(r)
	compose.NewHandler(analyze.NewService()).RegisterRoutes(r)
	pipeline.NewHandler(renderService).RegisterRoutes(r)
	checkout.NewHandler(checkoutService).RegisterRoutes(r)
	bundle.NewHandler(bundleService).RegisterRoutes(r)
	hub.RegisterRoutes(r)

	log.Printf("🚀 RideCanvas server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📡 Progress WebSocket: ws://localhost:%s/ws/progress/{correlationId}", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
