package handler

import (
	"encoding/json"
	"net/http"

	"github.com/otp-auth-api/internal/application/profile"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/validate"
	"github.com/otp-auth-api/internal/transport/http/middleware"
)

type Profile struct {
	svc profile.Service
}

func NewProfile(svc profile.Service) *Profile {
	return &Profile{svc: svc}
}

// Get handles GET /api/user.
func (h *Profile) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Message: "User fetched successfully",
		Success: true,
		User:    toPublicUser(u),
	})
}

// Update handles PUT /api/updateUser.
func (h *Profile) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.Update(r.Context(), u.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Message: "User updated successfully",
		Success: true,
		User:    toPublicUser(updated),
	})
}

// UploadImage handles POST /api/uploadUserImage. The image arrives as the
// multipart form field "image".
func (h *Profile) UploadImage(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	if err := r.ParseMultipartForm(profile.MaxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	updated, err := h.svc.UploadImage(r.Context(), profile.UploadImageInput{
		UserID:      u.UserID,
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Message: "Profile image uploaded successfully",
		Success: true,
		User:    toPublicUser(updated),
	})
}
