package domain

import (
	"strings"
	"time"
)

// ApplicationStatus is a stage of the application pipeline.
type ApplicationStatus string

const (
	StatusNotApplied  ApplicationStatus = "Not Applied"
	StatusApplied     ApplicationStatus = "Applied"
	StatusInReview    ApplicationStatus = "In Review"
	StatusPhoneScreen ApplicationStatus = "Phone Screen"
	StatusInterview   ApplicationStatus = "Interview"
	StatusOffer       ApplicationStatus = "Offer"
	StatusRejected    ApplicationStatus = "Rejected"
	StatusWithdrawn   ApplicationStatus = "Withdrawn"
)

// PipelineStages are the funnel buckets charted on the dashboard.
var PipelineStages = []ApplicationStatus{
	StatusNotApplied, StatusApplied, StatusPhoneScreen, StatusInterview, StatusOffer,
}

var allStatuses = []ApplicationStatus{
	StatusNotApplied, StatusApplied, StatusInReview, StatusPhoneScreen,
	StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn,
}

func ParseStatus(s string) (ApplicationStatus, bool) {
	for _, st := range allStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Sent reports whether the application has left the draft stage.
func (s ApplicationStatus) Sent() bool {
	return s != StatusNotApplied && s != ""
}

// Responded reports whether the employer has replied in any way.
func (s ApplicationStatus) Responded() bool {
	switch s {
	case StatusInReview, StatusPhoneScreen, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Rank orders statuses along the pipeline so replies never move an application backwards.
func (s ApplicationStatus) Rank() int {
	for i, st := range allStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

type Application struct {
	ID           int64             `json:"id"`
	JobID        int64             `json:"jobId"`
	PackageID    string            `json:"packageId"`
	Status       ApplicationStatus `json:"status"`
	FolderPath   string            `json:"folderPath"`
	Template     string            `json:"template"`
	Notes        string            `json:"notes"`
	FollowUpDate string            `json:"followUpDate,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}
