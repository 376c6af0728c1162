package tools

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"jobdash-engine/internal/domain"
	"jobdash-engine/internal/rank"
	"jobdash-engine/internal/store"
)

const summaryFile = "summary.md"

type GenerateResult struct {
	JobID         int64  `json:"job_id"`
	ApplicationID int64  `json:"application_id"`
	PackageID     string `json:"package_id"`
	FolderPath    string `json:"folder_path"`
	Template      string `json:"template"`
}

var summaryTmpl = template.Must(template.New("summary").Parse(`# {{.Job.Title}} at {{.Job.Company}}

- Location: {{.Job.Location}}
- Platform: {{.Job.Platform}}
- Posted: {{.Posted}}
- Link: {{.Job.URL}}
- Template: {{.Template}}
- Package: {{.PackageID}}

## Fit
Score {{.Fit.Score}}% ({{.Fit.Verdict}})
{{range .Fit.Strengths}}
- ✅ {{.}}
{{- end}}
{{range .Fit.Improvements}}
- 💡 {{.}}
{{- end}}

Recommendation: {{.Fit.Recommendation}}
{{if .Keywords}}
## Keywords to emphasize
{{range .Keywords}}
- {{.}}
{{- end}}
{{end}}
## Description
{{.Description}}
`))

type summaryData struct {
	Job         domain.Job
	Posted      string
	Template    string
	PackageID   string
	Fit         rank.FitAnalysis
	Keywords    []string
	Description string
}

// GenerateApplication writes a package folder for the job and records a draft application.
func (s *Service) GenerateApplication(ctx context.Context, a GenerateArgs) (GenerateResult, error) {
	job, err := store.GetJob(ctx, s.DB, a.JobID)
	if err != nil {
		return GenerateResult{}, err
	}
	cfg := s.cfg()

	tmplName := strings.TrimSpace(a.Template)
	if tmplName == "" {
		tmplName = cfg.Applications.DefaultTemplate
	}

	pkgID := store.NewPackageID()
	folder := filepath.Join(s.outputDir(cfg.Applications.OutputDir), packageFolderName(job, s.now().Format("20060102"), pkgID))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return GenerateResult{}, fmt.Errorf("create package dir: %w", err)
	}

	desc := html.UnescapeString(s.strip.Sanitize(job.Description))
	data := summaryData{
		Job:         job,
		Posted:      humanize.RelTime(job.Date, s.now(), "ago", "from now"),
		Template:    tmplName,
		PackageID:   pkgID,
		Fit:         rank.YAMLScorer{Cfg: cfg}.Analyze(job.Title, desc),
		Keywords:    a.CustomKeywords,
		Description: desc,
	}
	if job.Date.IsZero() {
		data.Posted = "unknown"
	}

	var b strings.Builder
	if err := summaryTmpl.Execute(&b, data); err != nil {
		return GenerateResult{}, fmt.Errorf("render summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, summaryFile), []byte(b.String()), 0o644); err != nil {
		return GenerateResult{}, fmt.Errorf("write summary: %w", err)
	}

	app, err := store.CreateApplication(ctx, s.DB, pkgID, store.ApplicationInsert{
		JobID:      job.ID,
		Status:     domain.StatusNotApplied,
		FolderPath: folder,
		Template:   tmplName,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	s.Log.Info("package generated",
		zap.Int64("job_id", job.ID),
		zap.String("folder", folder),
		zap.String("size", humanize.Bytes(uint64(b.Len()))))

	return GenerateResult{
		JobID:         job.ID,
		ApplicationID: app.ID,
		PackageID:     pkgID,
		FolderPath:    folder,
		Template:      tmplName,
	}, nil
}

func (s *Service) outputDir(dir string) string {
	if filepath.IsAbs(dir) || s.DataDir == "" {
		return dir
	}
	return filepath.Join(s.DataDir, dir)
}

// packageFolderName is company_title_date_shortid, lowercased with unsafe runes dropped.
func packageFolderName(job domain.Job, date, pkgID string) string {
	short := pkgID
	if len(short) > 8 {
		short = short[:8]
	}
	return strings.Join([]string{slug(job.Company, 30), slug(job.Title, 40), date, short}, "_")
}

func slug(s string, max int) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > max {
		out = strings.TrimRight(out[:max], "-")
	}
	if out == "" {
		return "job"
	}
	return out
}
