package httpapi

import (
	"context"
	"net/http"

	"jobdash-engine/internal/inbox"
)

type InboxHandler struct {
	Poller *inbox.Poller
}

func (h InboxHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Poller.Status())
}

// Scan starts a scan in the background unless one is already running.
func (h InboxHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if h.Poller.Status().Running {
		WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "msg": "already running"})
		return
	}
	go func() {
		// detached from the request; RunOnce applies its own timeout
		_ = h.Poller.RunOnce(context.WithoutCancel(r.Context()))
	}()
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}
