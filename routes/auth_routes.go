package routes

import (
	"tingles_server/config"
	"tingles_server/controllers"
	"tingles_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up sign-up, login and OAuth routes under /api/auth.
func RegisterAuthRoutes(r *mux.Router, store services.Store, cfg config.AppConfig) {
	controller := controllers.NewAuthController(store, cfg)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", controller.Register).Methods("POST")
	authRouter.HandleFunc("/login", controller.Login).Methods("POST")
	authRouter.HandleFunc("/google", controller.GoogleLogin).Methods("GET")
	authRouter.HandleFunc("/google/callback", controller.GoogleCallback).Methods("GET")
	authRouter.HandleFunc("/linkedin", controller.LinkedInLogin).Methods("GET")
	authRouter.HandleFunc("/linkedin/callback", controller.LinkedInCallback).Methods("GET")
}
