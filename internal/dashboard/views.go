package dashboard

import (
	"bytes"
	"html/template"

	"go.uber.org/zap"
)

// FitView is the data behind the fit analysis modal.
type FitView struct {
	JobID          string   `json:"-"`
	Score          int      `json:"fit_score"`
	Verdict        string   `json:"verdict"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	Recommendation string   `json:"recommendation"`
}

var views = template.Must(template.New("views").Parse(`
{{define "search-loading"}}<h2>🔍 Searching for jobs...</h2>
<div class="loading-spinner">Searching LinkedIn, Indeed, and Glassdoor...</div>{{end}}

{{define "search-modal"}}<h2>🎯 Found {{len .}} new opportunities</h2><div class="search-results">
{{- range .}}
<div class="job-card">
  <h3>{{.Title}}</h3>
  <p>{{.Company}} | {{.Location}}</p>
  <p class="platform">Found on {{.Platform}}</p>
  <button class="btn btn-primary btn-sm" data-action="add-to-database" data-arg="{{.Title}}">Add to Database</button>
</div>
{{- end}}
</div>{{end}}

{{define "search-results"}}<h3>Search Results</h3>
{{- range .}}
<div class="job-card">
  <h4>{{.Title}}</h4>
  <p>{{.Company}} | {{.Location}}</p>
  <button class="btn btn-sm" data-action="add-to-database" data-arg="{{.Title}}">Add to Tracker</button>
</div>
{{- end}}{{end}}

{{define "analysis"}}<h2>📊 Job Fit Analysis</h2>
<div class="analysis-result">
  <div class="fit-score">
    <h3>Fit Score: {{.Score}}%</h3>
    <p>{{.Verdict}}</p>
  </div>
  <div class="strengths">
    <h4>✅ Strengths:</h4>
    <ul>{{range .Strengths}}<li>{{.}}</li>{{end}}</ul>
  </div>
  <div class="improvements">
    <h4>💡 Improvements:</h4>
    <ul>{{range .Improvements}}<li>{{.}}</li>{{end}}</ul>
  </div>
  <div class="recommendation">
    <h4>Recommendation:</h4>
    <p>{{.Recommendation}}</p>
    {{- if .JobID}}
    <button class="btn btn-success" data-action="generate-for-job" data-arg="{{.JobID}}">Generate Application Now</button>
    {{- end}}
  </div>
</div>{{end}}
`))

func (c *Controller) render(name string, data any) string {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		c.log.Error("render view", zap.String("view", name), zap.Error(err))
		return ""
	}
	return buf.String()
}
