package routes

import (
	"tingles_server/controllers"
	"tingles_server/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes sets up routes for profile operations under /api/profiles.
func RegisterProfileRoutes(r *mux.Router, store services.Store) {
	controller := controllers.NewProfileController(store)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.HandleFunc("", controller.ListProfiles).Methods("GET")
	profileRouter.HandleFunc("", controller.CreateProfile).Methods("POST")
	profileRouter.HandleFunc("/email/{email}", controller.GetProfileByEmail).Methods("GET")
	profileRouter.HandleFunc("/email/{email}", controller.UpdateProfile).Methods("PATCH")
}
