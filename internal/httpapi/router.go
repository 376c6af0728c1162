package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter wires every engine route. main mounts /shutdown on the result.
func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	log := d.Log.Named("http")

	r := chi.NewRouter()
	r.Use(RequestID, Recover(log), AccessLog(log), Cors)

	r.Get("/health", HealthHandler{}.Health)

	jh := JobsHandler{DB: d.DB, Hub: d.Hub, CfgVal: d.CfgVal}
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", jh.List)
		r.Post("/", jh.Create)
		r.Get("/{id}", jh.Get)
		r.Delete("/{id}", jh.Delete)
	})

	r.Route("/api", func(r chi.Router) {
		ah := AnalyticsHandler{DB: d.DB}
		r.Get("/analytics", ah.Get)

		th := ToolsHandler{Tools: d.Tools, Hub: d.Hub}
		r.Post("/mcp/tool", th.Invoke)

		sh := SecretsHandler{CfgVal: d.CfgVal}
		r.Post("/secrets/imap", sh.SetIMAPPassword)
		r.Delete("/secrets/imap", sh.DeleteIMAPPassword)
		r.Post("/secrets/tool-token", sh.SetToolToken)
	})

	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	r.Route("/config", func(r chi.Router) {
		r.Get("/", ch.Get)
		r.Put("/", ch.Put)
		r.Get("/path", ch.Path)
		r.Get("/validate", ch.Validate)
	})

	if d.Inbox != nil {
		ih := InboxHandler{Poller: d.Inbox}
		r.Get("/inbox/status", ih.Status)
		r.Post("/inbox/scan", ih.Scan)
	}

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	if d.Controller != nil {
		dh := DashboardHandler{Page: d.Page, Controller: d.Controller, Log: log}
		r.Get("/", dh.ServePage)
		r.Post("/ui/actions/{action}", dh.Action)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
