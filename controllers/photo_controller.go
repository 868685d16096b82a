package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"tingles_server/services"
)

// PhotoController hands out presigned URLs for profile photo uploads.
type PhotoController struct {
	Photos *services.PhotoService
}

// NewPhotoController creates a new instance of PhotoController.
func NewPhotoController(photos *services.PhotoService) *PhotoController {
	return &PhotoController{Photos: photos}
}

// UploadURL returns a presigned PUT URL for a new photo.
func (c *PhotoController) UploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName and fileType are required")
		return
	}

	url, key, err := c.Photos.UploadURL(r.Context(), req.FileName, req.FileType)
	if err != nil {
		log.Printf("Failed to presign upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// ReadURL returns a presigned GET URL for an uploaded photo.
func (c *PhotoController) ReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := c.Photos.ReadURL(r.Context(), key)
	if err != nil {
		log.Printf("Failed to presign read: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate read URL")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
