package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hameed1117/User-Management/internal/services"
	"github.com/Hameed1117/User-Management/types"
	"github.com/go-chi/chi/v5"
)

const maxPictureBytes = 8 << 20

// ProfileHandler provides self-service profile endpoints.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler constructs a ProfileHandler with the provided service.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRouter registers profile routes. All routes act on the
// authenticated caller's own account.
func ProfileRouter(r chi.Router, profileService *services.ProfileService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewProfileHandler(profileService)

	r.Use(authMiddleware)
	r.Get("/", handler.GetProfile)
	r.Put("/", handler.UpdateProfile)
	r.Post("/picture", handler.UploadPicture)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var patch types.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.profileService.Update(r.Context(), userID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UploadPicture accepts a multipart "file" field, stores it in object
// storage, and returns the resulting URL.
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxPictureBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.profileService.UploadPicture(r.Context(), userID, header.Filename, file, header.Size, contentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file_url": url})
}
