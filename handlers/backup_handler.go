package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/event-companion/middleware"
	"github.com/Dosada05/event-companion/services"
)

type BackupHandler struct {
	backupService services.BackupService
}

func NewBackupHandler(backupService services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Run triggers an immediate snapshot upload, outside the periodic schedule.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.backupService == nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "snapshot backups are not configured")
		return
	}

	managerID, err := middleware.GetManagerIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, "invalid authentication token")
		return
	}
	slog.Info("manual snapshot requested", slog.Int("manager_id", managerID))

	result, err := h.backupService.Run(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"snapshot": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
