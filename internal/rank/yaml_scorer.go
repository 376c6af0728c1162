// internal/rank/yaml_scorer.go
package rank

import (
	"fmt"
	"strings"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/domain"
)

type YAMLScorer struct {
	Cfg config.Config
}

// FitAnalysis explains a score in terms of the profile rules.
type FitAnalysis struct {
	Score          int      `json:"fit_score"`
	Priority       string   `json:"priority"`
	Verdict        string   `json:"verdict"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	Recommendation string   `json:"recommendation"`
	Tags           []string `json:"tags"`
}

func (s YAMLScorer) Score(job domain.Job) (int, []string) {
	a := s.Analyze(job.Title, job.Description)
	return a.Score, a.Tags
}

// Priority buckets a 0..100 score using the configured thresholds.
func (s YAMLScorer) Priority(score int) string {
	switch {
	case score >= s.Cfg.Scoring.HighPriorityMin:
		return PriorityHigh
	case score >= s.Cfg.Scoring.MediumPriorityMin:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (s YAMLScorer) Analyze(title, description string) FitAnalysis {
	text := strings.ToLower(title + " " + description)

	score := 0
	a := FitAnalysis{Strengths: []string{}, Improvements: []string{}}
	var tags []string

	applyRules := func(rules []config.Rule) {
		for _, r := range rules {
			needle, ok := firstMatch(text, r.Any)
			if ok {
				score += r.Weight
				tags = append(tags, r.Tag)
				a.Strengths = append(a.Strengths, fmt.Sprintf("%s: posting mentions %q", r.Tag, needle))
				continue
			}
			advice := r.Advice
			if advice == "" {
				advice = "Add evidence of " + r.Tag + " experience"
			}
			a.Improvements = append(a.Improvements, advice)
		}
	}

	applyRules(s.Cfg.Scoring.TitleRules)
	applyRules(s.Cfg.Scoring.KeywordRules)

	for _, p := range s.Cfg.Scoring.Penalties {
		if _, ok := firstMatch(text, p.Any); ok {
			score += p.Weight
			a.Improvements = append(a.Improvements, "Watch out: "+p.Reason)
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	a.Score = score
	a.Tags = uniq(tags)
	a.Priority = s.Priority(score)
	switch a.Priority {
	case PriorityHigh:
		a.Verdict = "Strong Match - HIGH PRIORITY"
		a.Recommendation = "Apply immediately with " + s.Cfg.Applications.DefaultTemplate
	case PriorityMedium:
		a.Verdict = "Good Match - MEDIUM PRIORITY"
		a.Recommendation = "Tailor your resume to the gaps below, then apply"
	default:
		a.Verdict = "Weak Match - LOW PRIORITY"
		a.Recommendation = "Apply only with a referral or a strong reason"
	}
	return a
}

func firstMatch(text string, terms []string) (string, bool) {
	for _, needle := range terms {
		if strings.Contains(text, strings.ToLower(needle)) {
			return needle, true
		}
	}
	return "", false
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
