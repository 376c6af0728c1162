package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"jobdash-engine/internal/domain"
	"jobdash-engine/internal/events"
	"jobdash-engine/internal/store"
	"jobdash-engine/internal/tools"
)

type AnalyticsHandler struct {
	DB *sql.DB
}

// Get serves the dashboard's stat cards.
func (h AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	an, err := store.Analytics(r.Context(), h.DB)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, an)
}

type ToolsHandler struct {
	Tools *tools.Service
	Hub   *events.Hub
}

func (h ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req domain.ToolRequest
	if err := decodeJSON(r, &req, true); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Tool == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_tool", "tool is required")
		return
	}

	out, err := h.Tools.Call(r.Context(), req.Tool, req.Arguments)
	switch {
	case err == nil:
	case errors.Is(err, tools.ErrUnknownTool):
		WriteError(w, r, http.StatusNotFound, "unknown_tool", err.Error())
		return
	case errors.Is(err, tools.ErrInvalidArgs):
		WriteError(w, r, http.StatusBadRequest, "invalid_arguments", err.Error())
		return
	default:
		writeStoreError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	switch res := out.(type) {
	case tools.TrackResult:
		h.Hub.Emit(reqID, events.TypeApplicationSet, res.Application)
	case tools.GenerateResult:
		h.Hub.Emit(reqID, events.TypeApplicationSet, map[string]any{"jobId": res.JobID, "folderPath": res.FolderPath})
	}
	WriteJSON(w, http.StatusOK, out)
}
