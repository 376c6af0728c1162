package httpapi

import (
	"net/http"
	"time"
)

type HealthHandler struct{}

func (HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().Format(time.RFC3339),
	})
}
