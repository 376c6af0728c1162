package rank

import "jobdash-engine/internal/domain"

type Scorer interface {
	Score(job domain.Job) (score int, tags []string)
}

// Priority buckets
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)
