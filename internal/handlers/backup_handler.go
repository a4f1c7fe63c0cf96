package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/placementdesk/backend/internal/services"
)

// maxBackupBytes bounds an uploaded backup.
const maxBackupBytes = 32 << 20

type BackupHandler struct {
	service *services.BackupService
}

func NewBackupHandler(service *services.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// Export downloads the full ledger as JSON
// @Summary Export backup
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Snapshot
// @Failure 403 {object} services.ErrorResponse
// @Router /backup [get]
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Export(r.Context())
	name := fmt.Sprintf("ledger-backup-%s.json", snap.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	writeJSON(w, http.StatusOK, snap)
}

// Import replaces the ledger with an uploaded backup
// @Summary Import backup
// @Description Validates the backup, then replaces every collection
// @Tags Backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Snapshot true "Backup"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /backup [post]
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		services.SendErrorResponse(w, "Backup is too large or unreadable", http.StatusBadRequest, nil)
		return
	}
	result, err := h.service.Import(r.Context(), actor, raw)
	if err != nil {
		writeError(w, "BACKUP", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
