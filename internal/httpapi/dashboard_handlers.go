package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"jobdash-engine/internal/dashboard"
	"jobdash-engine/internal/dom"
)

type DashboardHandler struct {
	Page       *dom.Page
	Controller *dashboard.Controller
	Log        *zap.Logger
}

// ServePage serves the current state of the server-side page.
func (h DashboardHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	markup, err := h.Page.HTML()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(markup))
}

type searchForm struct {
	Keywords  string   `json:"keywords"`
	Location  string   `json:"location"`
	Platforms []string `json:"platforms"`
}

// actionReq carries what the browser collected before posting: the button's
// argument, a prompt answer, a confirm result and the search form fields.
type actionReq struct {
	Arg       string      `json:"arg"`
	JobID     string      `json:"job_id"`
	Confirmed bool        `json:"confirmed"`
	Form      *searchForm `json:"form"`
}

// Action runs one dashboard action. Results reach the browser as dom_patch events.
func (h DashboardHandler) Action(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")

	var req actionReq
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if f := req.Form; f != nil {
		h.Page.SetValue(dashboard.IDSearchKeywords, f.Keywords)
		h.Page.SetValue(dashboard.IDSearchLocation, f.Location)
		h.Page.SetSelected(dashboard.IDSearchPlatforms, f.Platforms)
	}

	actions := h.Controller.WithPrompter(dashboard.StaticPrompter{Answer: req.JobID, Confirmed: req.Confirmed})
	err := dashboard.Dispatch(r.Context(), actions, name, req.Arg)
	switch {
	case errors.Is(err, dashboard.ErrUnknownAction):
		WriteError(w, r, http.StatusNotFound, "unknown_action", err.Error())
		return
	case errors.Is(err, dashboard.ErrMissingArg):
		WriteError(w, r, http.StatusBadRequest, "missing_argument", err.Error())
		return
	case err != nil:
		h.Log.Error("dashboard action", zap.String("action", name), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "action_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "action": name})
}
