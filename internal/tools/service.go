// Package tools implements the tool-invocation endpoint the dashboard calls in
// remote mode. Every tool works over the tracker's own database.
package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/domain"
	"jobdash-engine/internal/rank"
	"jobdash-engine/internal/store"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

type Service struct {
	DB      *sql.DB
	Config  func() config.Config
	DataDir string
	Log     *zap.Logger

	validate *validator.Validate
	strip    *bluemonday.Policy
	now      func() time.Time
}

func New(db *sql.DB, cfg func() config.Config, dataDir string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		DB:       db,
		Config:   cfg,
		DataDir:  dataDir,
		Log:      log.Named("tools"),
		validate: newValidator(),
		strip:    bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// Call decodes args for the named tool, validates them and runs it.
func (s *Service) Call(ctx context.Context, tool string, args json.RawMessage) (any, error) {
	start := s.now()
	out, err := s.dispatch(ctx, tool, args)
	if err != nil {
		s.Log.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
		return nil, err
	}
	s.Log.Info("tool ok", zap.String("tool", tool), zap.Duration("took", s.now().Sub(start)))
	return out, nil
}

func (s *Service) dispatch(ctx context.Context, tool string, args json.RawMessage) (any, error) {
	switch tool {
	case domain.ToolSearchJobs:
		var a SearchArgs
		if err := s.decode(args, &a); err != nil {
			return nil, err
		}
		return s.SearchJobs(ctx, a)
	case domain.ToolGenerateApplication:
		var a GenerateArgs
		if err := s.decode(args, &a); err != nil {
			return nil, err
		}
		return s.GenerateApplication(ctx, a)
	case domain.ToolAnalyzeJobFit:
		var a AnalyzeArgs
		if err := s.decode(args, &a); err != nil {
			return nil, err
		}
		return s.AnalyzeJobFit(ctx, a)
	case domain.ToolTrackApplication:
		var a TrackArgs
		if err := s.decode(args, &a); err != nil {
			return nil, err
		}
		return s.TrackApplication(ctx, a)
	case domain.ToolGetAnalytics:
		var a AnalyticsArgs
		if err := s.decode(args, &a); err != nil {
			return nil, err
		}
		return s.GetAnalytics(ctx, a)
	default:
		return nil, fmt.Errorf("%q: %w", tool, ErrUnknownTool)
	}
}

func (s *Service) decode(raw json.RawMessage, dst any) error {
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}

func (s *Service) cfg() config.Config {
	if s.Config == nil {
		return config.Default()
	}
	return s.Config()
}

type SearchResult struct {
	Jobs  []domain.JobRecord `json:"jobs"`
	Count int                `json:"count"`
}

func (s *Service) SearchJobs(ctx context.Context, a SearchArgs) (SearchResult, error) {
	opts := store.SearchOpts{
		Keywords:   a.Keywords,
		Location:   a.Location,
		DaysPosted: a.DaysPosted,
		Limit:      a.Limit,
	}
	for _, p := range a.Platforms {
		if pl, ok := domain.ParsePlatform(p); ok {
			opts.Platforms = append(opts.Platforms, pl)
		}
	}
	// only unknown boards requested: nothing can match
	if len(a.Platforms) > 0 && len(opts.Platforms) == 0 {
		return SearchResult{Jobs: []domain.JobRecord{}}, nil
	}
	jobs, err := store.SearchJobs(ctx, s.DB, opts)
	if err != nil {
		return SearchResult{}, err
	}
	out := SearchResult{Jobs: make([]domain.JobRecord, 0, len(jobs))}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, j.Record())
	}
	out.Count = len(out.Jobs)
	return out, nil
}

type FitResult struct {
	JobID int64 `json:"job_id,omitempty"`
	rank.FitAnalysis
}

func (s *Service) AnalyzeJobFit(ctx context.Context, a AnalyzeArgs) (FitResult, error) {
	title, desc := a.Title, a.JobDescription
	if a.JobID > 0 {
		job, err := store.GetJob(ctx, s.DB, a.JobID)
		if err != nil {
			return FitResult{}, err
		}
		title, desc = job.Title, job.Description
	}
	scorer := rank.YAMLScorer{Cfg: s.cfg()}
	return FitResult{JobID: a.JobID, FitAnalysis: scorer.Analyze(title, s.strip.Sanitize(desc))}, nil
}

type TrackResult struct {
	JobID       int64              `json:"job_id"`
	Status      string             `json:"status"`
	Application domain.Application `json:"application"`
}

func (s *Service) TrackApplication(ctx context.Context, a TrackArgs) (TrackResult, error) {
	st, _ := domain.ParseStatus(a.Status)
	app, err := store.UpdateApplicationStatus(ctx, s.DB, a.JobID, store.StatusUpdate{
		Status:       st,
		Notes:        a.Notes,
		FollowUpDate: a.FollowUpDate,
	})
	if err != nil {
		return TrackResult{}, err
	}
	return TrackResult{JobID: a.JobID, Status: string(app.Status), Application: app}, nil
}

func (s *Service) GetAnalytics(ctx context.Context, a AnalyticsArgs) (any, error) {
	an, err := store.Analytics(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	switch a.MetricType {
	case "funnel":
		return map[string]any{"pipeline": an.Pipeline}, nil
	case "response_rate":
		return map[string]any{"sent": an.Sent, "responseRate": an.ResponseRate}, nil
	default:
		return an, nil
	}
}
