package domain

import (
	"strings"
	"time"
)

// Platform is the job board a posting was found on.
type Platform string

const (
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformIndeed    Platform = "Indeed"
	PlatformGlassdoor Platform = "Glassdoor"
)

// Platforms lists every supported board in display order.
var Platforms = []Platform{PlatformLinkedIn, PlatformIndeed, PlatformGlassdoor}

// ParsePlatform accepts any casing ("linkedin", "LinkedIn").
func ParsePlatform(s string) (Platform, bool) {
	for _, p := range Platforms {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// JobRecord is the display artifact produced by a search.
type JobRecord struct {
	ID       int64    `json:"id,omitempty"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Platform Platform `json:"platform"`
}

// Job is a tracked posting.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Platform    Platform  `json:"platform"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Score       int       `json:"score"`
	Priority    string    `json:"priority"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date"`
	SourceID    string    `json:"sourceId,omitempty"`
}

// Record projects a tracked job to its display form.
func (j Job) Record() JobRecord {
	return JobRecord{ID: j.ID, Title: j.Title, Company: j.Company, Location: j.Location, Platform: j.Platform}
}
