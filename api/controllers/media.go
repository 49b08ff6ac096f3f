package controllers

import (
	"net/http"

	"github.com/evergreenlabs/plantcare-backend/api/responses"
	"github.com/evergreenlabs/plantcare-backend/api/validators"
	"github.com/evergreenlabs/plantcare-backend/internal/media"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
)

type confirmPhotoRequest struct {
	ObjectKey string `json:"object_key" validate:"required,max=1024"`
}

// PlantPhotoPresign issues a signed upload URL for a plant photo.
func PlantPhotoPresign(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plantID, err := pathUUID(r, "plantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body media.PresignInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.PresignPhotoUpload(r.Context(), userID, plantID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// PlantPhotoConfirm records a finished upload as the plant's photo.
func PlantPhotoConfirm(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plantID, err := pathUUID(r, "plantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body confirmPhotoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ConfirmPhotoUpload(r.Context(), userID, plantID, body.ObjectKey); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"confirmed": true})
	}
}

// PlantPhotoURL returns a short-lived read URL for the plant's photo.
func PlantPhotoURL(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plantID, err := pathUUID(r, "plantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.PhotoReadURL(r.Context(), userID, plantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}
