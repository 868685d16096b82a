package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"tingles_server/models"
	"tingles_server/services"

	"github.com/gorilla/mux"
)

// SuggestionController handles match-suggestion requests.
type SuggestionController struct {
	Store services.Store
}

// NewSuggestionController creates a new instance of SuggestionController.
func NewSuggestionController(store services.Store) *SuggestionController {
	return &SuggestionController{Store: store}
}

type suggestionRequest struct {
	SuggestedToEmail string `json:"suggested_to_email"`
	ProfileOfEmail   string `json:"profile_of_email"`
	Status           string `json:"status"`
}

// ListSuggestions returns every suggestion; an operator view.
func (c *SuggestionController) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := c.Store.LoadSuggestions(r.Context())
	if err != nil {
		log.Printf("Failed to load suggestions: %v", err)
		writeError(w, storeErrorStatus(err), "failed to load suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// GetSuggestionsForUser returns the profiles suggested to one user, each
// carrying its SuggestionStatus field.
func (c *SuggestionController) GetSuggestionsForUser(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	profiles, err := c.Store.GetSuggestionsForUser(r.Context(), email)
	if err != nil {
		log.Printf("Failed to load suggestions for %s: %v", email, err)
		writeError(w, storeErrorStatus(err), "failed to load suggestions")
		return
	}
	if profiles == nil {
		profiles = []models.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": profiles})
}

// CreateSuggestion records a new suggestion. Uniqueness per (user, profile)
// pair is advisory, so the existence check happens here, before the insert.
func (c *SuggestionController) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.SuggestedToEmail == "" || req.ProfileOfEmail == "" {
		writeError(w, http.StatusBadRequest, "both emails are required")
		return
	}

	exists, err := c.Store.SuggestionExists(r.Context(), req.SuggestedToEmail, req.ProfileOfEmail)
	if err != nil {
		log.Printf("Failed to check suggestion: %v", err)
		writeError(w, storeErrorStatus(err), "failed to check suggestion")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "suggestion already exists")
		return
	}

	if err := c.Store.AddSuggestion(r.Context(), req.SuggestedToEmail, req.ProfileOfEmail, req.Status); err != nil {
		log.Printf("Failed to add suggestion: %v", err)
		writeError(w, storeErrorStatus(err), "failed to add suggestion")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Suggestion added successfully",
	})
}

// UpdateSuggestionStatus advances a suggestion through its lifecycle.
func (c *SuggestionController) UpdateSuggestionStatus(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	if err := c.Store.UpdateSuggestionStatus(r.Context(), req.SuggestedToEmail, req.ProfileOfEmail, req.Status); err != nil {
		log.Printf("Failed to update suggestion: %v", err)
		writeError(w, storeErrorStatus(err), "failed to update suggestion")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Suggestion updated successfully",
	})
}
