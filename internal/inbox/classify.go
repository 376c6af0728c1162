package inbox

import (
	"strings"

	"jobdash-engine/internal/domain"
)

// Kind is what a recruiter reply is about.
type Kind string

const (
	KindOther       Kind = "other"
	KindOffer       Kind = "offer"
	KindInterview   Kind = "interview"
	KindRejection   Kind = "rejection"
	KindInfoRequest Kind = "info_request"
)

type Classification struct {
	Kind           Kind     `json:"kind"`
	Confidence     float64  `json:"confidence"`
	ActionRequired bool     `json:"actionRequired"`
	Keywords       []string `json:"keywords"`
}

type signal struct {
	kind      Kind
	threshold float64
	action    bool
	terms     []string
}

// Checked in order; the first category over its threshold wins.
var signals = []signal{
	{KindOffer, 0.2, true, []string{
		"offer", "compensation", "salary", "benefits", "start date",
		"pleased to offer", "congratulations", "welcome to",
	}},
	{KindInterview, 0.15, true, []string{
		"interview", "phone screen", "video call", "meet with",
		"schedule", "availability", "calendar", "zoom", "teams",
		"next steps", "speak with you", "conversation", "discuss",
	}},
	{KindRejection, 0.2, false, []string{
		"unfortunately", "not selected", "other candidates",
		"not moving forward", "pursue other", "decided to go",
		"position has been filled", "no longer available",
		"thank you for your interest", "best of luck", "future opportunities",
	}},
	{KindInfoRequest, 0.15, true, []string{
		"additional information", "please provide", "could you send",
		"need more details", "clarification", "confirm", "verify",
	}},
}

// Classify scores subject and body against each category's keyword list.
func Classify(subject, body string) Classification {
	text := strings.ToLower(subject + " " + body)
	for _, s := range signals {
		var hits []string
		for _, t := range s.terms {
			if strings.Contains(text, t) {
				hits = append(hits, t)
			}
		}
		score := float64(len(hits)) / float64(len(s.terms))
		if score > s.threshold {
			return Classification{Kind: s.kind, Confidence: score, ActionRequired: s.action, Keywords: hits}
		}
	}
	return Classification{Kind: KindOther, Keywords: []string{}}
}

// Status maps a reply kind to the pipeline stage it implies.
func (k Kind) Status() (domain.ApplicationStatus, bool) {
	switch k {
	case KindOffer:
		return domain.StatusOffer, true
	case KindInterview:
		return domain.StatusInterview, true
	case KindRejection:
		return domain.StatusRejected, true
	case KindInfoRequest:
		return domain.StatusInReview, true
	}
	return "", false
}
