package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"tingles_server/models"
	"tingles_server/services"

	"github.com/gorilla/mux"
)

// ProfileController handles requests related to dating profiles.
type ProfileController struct {
	Store services.Store
}

// NewProfileController creates a new instance of ProfileController.
func NewProfileController(store services.Store) *ProfileController {
	return &ProfileController{Store: store}
}

// ListProfiles returns every profile. ?refresh=true bypasses the adapter
// cache.
func (c *ProfileController) ListProfiles(w http.ResponseWriter, r *http.Request) {
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	profiles, err := c.Store.LoadProfiles(r.Context(), forceRefresh)
	if err != nil {
		log.Printf("Failed to load profiles: %v", err)
		writeError(w, storeErrorStatus(err), "failed to load profiles")
		return
	}
	if profiles == nil {
		profiles = []models.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

// GetProfileByEmail fetches one profile; the photos array is the PhotoURL
// field split into individual image references.
func (c *ProfileController) GetProfileByEmail(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	profile, err := c.Store.GetProfileByEmail(r.Context(), email, false)
	if err != nil {
		if storeErrorStatus(err) == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		log.Printf("Failed to fetch profile %s: %v", email, err)
		writeError(w, storeErrorStatus(err), "failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"photos":  models.SplitPhotoRefs(profile.Field("PhotoURL")),
	})
}

// CreateProfile adds a new profile record.
func (c *ProfileController) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Record
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if profile.Email() == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := c.Store.AddProfile(r.Context(), profile); err != nil {
		log.Printf("Failed to add profile %s: %v", profile.Email(), err)
		writeError(w, storeErrorStatus(err), "failed to add profile")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile added successfully",
	})
}

// UpdateProfile applies a partial update to the profile matching the email.
func (c *ProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	var updates models.Record
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(updates) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := c.Store.UpdateProfileByEmail(r.Context(), email, updates); err != nil {
		log.Printf("Failed to update profile %s: %v", email, err)
		writeError(w, storeErrorStatus(err), "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
	})
}
