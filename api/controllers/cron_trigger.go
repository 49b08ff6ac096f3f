package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/evergreenlabs/plantcare-backend/api/responses"
	"github.com/evergreenlabs/plantcare-backend/internal/reminders"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/evergreenlabs/plantcare-backend/pkg/logger"
)

type reminderRunner interface {
	RunOnce(ctx context.Context) reminders.RunResult
}

// TriggerReminders runs one reminder batch on demand. The endpoint is
// guarded by a shared bearer secret; an empty secret disables the check.
// The batch result is returned as a bare JSON document so external
// schedulers can inspect it without unwrapping the API envelope.
func TriggerReminders(job reminderRunner, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if job == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reminders job unavailable"))
			return
		}

		if secret != "" {
			token, err := parseBearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid trigger secret"))
				return
			}
		}

		result := job.RunOnce(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(result); err != nil && logg != nil {
			logg.Error(r.Context(), "failed to encode trigger response", err)
		}
	}
}
