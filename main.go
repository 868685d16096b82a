package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"tingles_server/config"
	"tingles_server/routes"
	"tingles_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize the storage adapter once for the whole process.
	log.Printf("Initializing %s storage backend...", cfg.DBBackend)
	store, err := services.ActiveStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	photos, err := services.NewPhotoService(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize photo service: %v", err)
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Tingles")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Register routes
	routes.RegisterProfileRoutes(r, store)
	routes.RegisterSuggestionRoutes(r, store)
	routes.RegisterAuthRoutes(r, store, cfg)
	routes.RegisterPhotoRoutes(r, photos)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
