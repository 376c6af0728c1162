package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type secretReq struct {
	Value string `json:"value"`
	// Password is accepted for the IMAP endpoint.
	Password string `json:"password"`
}

func (s secretReq) secret() string {
	if s.Value != "" {
		return s.Value
	}
	return s.Password
}

func (h SecretsHandler) readSecret(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req secretReq
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return "", false
	}
	v := strings.TrimSpace(req.secret())
	if v == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_secret", "secret is empty")
		return "", false
	}
	return v, true
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	pw, ok := h.readSecret(w, r)
	if !ok {
		return
	}
	if err := secrets.SetIMAPPassword(h.CfgVal.Load().(config.Config), pw); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteIMAPPassword(w http.ResponseWriter, r *http.Request) {
	err := secrets.DeleteIMAPPassword(h.CfgVal.Load().(config.Config))
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		WriteError(w, r, http.StatusInternalServerError, "keyring_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetToolToken stores the bearer token sent to the tool service. Takes effect on restart.
func (h SecretsHandler) SetToolToken(w http.ResponseWriter, r *http.Request) {
	tok, ok := h.readSecret(w, r)
	if !ok {
		return
	}
	if err := secrets.SetToolToken(h.CfgVal.Load().(config.Config), tok); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
