package routes

import (
	"tingles_server/controllers"
	"tingles_server/services"

	"github.com/gorilla/mux"
)

// RegisterSuggestionRoutes sets up routes for match suggestions under /api/suggestions.
func RegisterSuggestionRoutes(r *mux.Router, store services.Store) {
	controller := controllers.NewSuggestionController(store)

	suggestionRouter := r.PathPrefix("/api/suggestions").Subrouter()
	suggestionRouter.HandleFunc("", controller.ListSuggestions).Methods("GET")
	suggestionRouter.HandleFunc("", controller.CreateSuggestion).Methods("POST")
	suggestionRouter.HandleFunc("", controller.UpdateSuggestionStatus).Methods("PATCH")
	suggestionRouter.HandleFunc("/user/{email}", controller.GetSuggestionsForUser).Methods("GET")
}
