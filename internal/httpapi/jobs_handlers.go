package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/domain"
	"jobdash-engine/internal/events"
	"jobdash-engine/internal/rank"
	"jobdash-engine/internal/store"
)

var validate = validator.New()

type JobsHandler struct {
	DB     *sql.DB
	Hub    *events.Hub
	CfgVal *atomic.Value // stores config.Config
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	jobs, err := store.ListJobs(r.Context(), h.DB, store.ListJobsOpts{
		Sort:     q.Get("sort"),
		Window:   q.Get("window"),
		Priority: q.Get("priority"),
		Limit:    limit,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	job, err := store.GetJob(r.Context(), h.DB, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

type createJobReq struct {
	Company     string    `json:"company" validate:"required,max=200"`
	Title       string    `json:"title" validate:"required,max=200"`
	Location    string    `json:"location" validate:"max=200"`
	Platform    string    `json:"platform" validate:"omitempty,oneof=LinkedIn Indeed Glassdoor linkedin indeed glassdoor"`
	URL         string    `json:"url" validate:"omitempty,url"`
	Description string    `json:"description" validate:"max=50000"`
	Date        time.Time `json:"date"`
	SourceID    string    `json:"sourceId" validate:"max=200"`
}

// Create stores a job, scoring it with the profile rules.
func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobReq
	if err := decodeJSON(r, &req, true); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	platform, _ := domain.ParsePlatform(req.Platform)
	scorer := rank.YAMLScorer{Cfg: h.CfgVal.Load().(config.Config)}
	fit := scorer.Analyze(req.Title, req.Description)

	job, added, err := store.InsertJob(r.Context(), h.DB, store.JobInsert{
		Company:     req.Company,
		Title:       req.Title,
		Location:    req.Location,
		Platform:    platform,
		URL:         req.URL,
		Description: req.Description,
		Score:       fit.Score,
		Priority:    fit.Priority,
		Tags:        fit.Tags,
		Date:        req.Date,
		SourceID:    req.SourceID,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !added {
		WriteJSON(w, http.StatusOK, job)
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobCreated, map[string]any{"id": job.ID})
	WriteJSON(w, http.StatusCreated, job)
}

func (h JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	if err := store.DeleteJob(r.Context(), h.DB, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobDeleted, map[string]any{"id": id})
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}
