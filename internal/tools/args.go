package tools

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobdash-engine/internal/domain"
)

type SearchArgs struct {
	Keywords   string   `json:"keywords" validate:"max=200"`
	Location   string   `json:"location" validate:"max=120"`
	Platforms  []string `json:"platforms" validate:"max=3,dive,platform"`
	DaysPosted int      `json:"days_posted" validate:"gte=0,lte=365"`
	Limit      int      `json:"limit" validate:"gte=0,lte=200"`
}

type GenerateArgs struct {
	JobID          int64    `json:"job_id" validate:"required,gt=0"`
	CustomKeywords []string `json:"custom_keywords" validate:"max=20,dive,required,max=60"`
	Template       string   `json:"template" validate:"omitempty,template_name"`
}

// AnalyzeArgs scores either a stored job or a pasted description.
type AnalyzeArgs struct {
	JobID          int64  `json:"job_id" validate:"required_without=JobDescription,gte=0"`
	JobDescription string `json:"job_description" validate:"required_without=JobID,max=20000"`
	Title          string `json:"title" validate:"max=200"`
}

type TrackArgs struct {
	JobID        int64  `json:"job_id" validate:"required,gt=0"`
	Status       string `json:"status" validate:"required,pipeline_status"`
	Notes        string `json:"notes" validate:"max=2000"`
	FollowUpDate string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
}

type AnalyticsArgs struct {
	MetricType string `json:"metric_type" validate:"omitempty,oneof=overview funnel response_rate"`
}

var templateNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]{0,39}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParsePlatform(fl.Field().String())
		return ok
	})
	v.RegisterValidation("pipeline_status", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseStatus(fl.Field().String())
		return ok
	})
	v.RegisterValidation("template_name", func(fl validator.FieldLevel) bool {
		return templateNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}
