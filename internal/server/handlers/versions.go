package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/gophtask/internal/server/storage"
	"github.com/iudanet/gophtask/pkg/api"
)

// MaxVersionSize ограничивает размер тела одной версии
const MaxVersionSize = 16 << 20

// VersionsHandler обслуживает лог версий identity из токена
type VersionsHandler struct {
	logger  *slog.Logger
	storage storage.VersionStorage
}

// NewVersionsHandler creates a new versions handler
func NewVersionsHandler(logger *slog.Logger, storage storage.VersionStorage) *VersionsHandler {
	return &VersionsHandler{
		logger:  logger,
		storage: storage,
	}
}

// GetVersions обрабатывает GET /api/v1/versions?after=N
// Возвращает все версии с номером больше N в порядке возрастания
func (h *VersionsHandler) GetVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := GetIdentity(ctx)
	if !ok {
		h.logger.Error("identity not found in context")
		SendError(h.logger, w, "missing identity", http.StatusUnauthorized)
		return
	}

	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		var err error
		after, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid after parameter", "after", raw, "error", err)
			SendError(h.logger, w, "invalid after parameter", http.StatusBadRequest)
			return
		}
	}

	versions, err := h.storage.GetVersionsAfter(ctx, identity, after)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get versions", "error", err, "identity", identity)
		SendError(h.logger, w, "failed to get versions", http.StatusInternalServerError)
		return
	}

	latest, err := h.storage.LatestVersion(ctx, identity)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get latest version", "error", err, "identity", identity)
		SendError(h.logger, w, "failed to get versions", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.VersionsResponse{Versions: versions, Latest: latest}, http.StatusOK)

	h.logger.DebugContext(ctx, "versions sent",
		"identity", identity,
		"after", after,
		"count", len(versions),
		"latest", latest)
}

// AddVersion обрабатывает POST /api/v1/versions/{version}
// Тело запроса непрозрачно для сервера и сохраняется как есть
func (h *VersionsHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := GetIdentity(ctx)
	if !ok {
		h.logger.Error("identity not found in context")
		SendError(h.logger, w, "missing identity", http.StatusUnauthorized)
		return
	}

	version, err := strconv.ParseUint(chi.URLParam(r, "version"), 10, 64)
	if err != nil || version == 0 {
		h.logger.WarnContext(ctx, "invalid version number", "version", chi.URLParam(r, "version"))
		SendError(h.logger, w, "version must be a positive integer", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxVersionSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendError(h.logger, w, "version is too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.WarnContext(ctx, "failed to read version body", "error", err)
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		SendError(h.logger, w, "version body is empty", http.StatusBadRequest)
		return
	}

	err = h.storage.AddVersion(ctx, identity, version, data)
	if errors.Is(err, storage.ErrVersionConflict) {
		h.sendConflict(w, r, identity, version)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to add version", "error", err, "identity", identity, "version", version)
		SendError(h.logger, w, "failed to add version", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.AddVersionResponse{Version: version, Latest: version}, http.StatusOK)

	h.logger.InfoContext(ctx, "version added",
		"identity", identity,
		"version", version,
		"bytes", len(data))
}

// sendConflict отвечает 409 с номером последней версии, чтобы клиент знал, что нужно подтянуть
func (h *VersionsHandler) sendConflict(w http.ResponseWriter, r *http.Request, identity string, version uint64) {
	ctx := r.Context()

	latest, err := h.storage.LatestVersion(ctx, identity)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get latest version", "error", err, "identity", identity)
		SendError(h.logger, w, "failed to add version", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "version conflict",
		"identity", identity,
		"version", version,
		"latest", latest)

	sendJSON(h.logger, w, api.ErrorResponse{
		Error:   http.StatusText(http.StatusConflict),
		Message: "version " + strconv.FormatUint(version, 10) + " does not follow latest " + strconv.FormatUint(latest, 10),
		Latest:  latest,
	}, http.StatusConflict)
}
