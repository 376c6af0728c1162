package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/domain"
	"jobdash-engine/internal/rank"
	"jobdash-engine/internal/store"
)

type fixture struct {
	svc  *Service
	db   *sql.DB
	dir  string
	jobs []domain.Job
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	d, err := store.Open(filepath.Join(dir, "tools.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	f := &fixture{db: d.Pool, dir: dir}
	f.svc = New(d.Pool, config.Default, dir, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	for _, in := range []store.JobInsert{
		{
			Company: "MedTech Inc", Title: "Healthcare Business Analyst", Location: "Louisville, KY",
			Platform:    domain.PlatformIndeed,
			Description: "<p>Clinical data with SQL and <script>alert(1)</script>agile teams</p>",
			Date:        time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC),
		},
		{Company: "StartupCo", Title: "Product Analyst", Location: "Remote", Platform: domain.PlatformGlassdoor},
	} {
		j, _, err := store.InsertJob(context.Background(), f.db, in)
		if err != nil {
			t.Fatalf("InsertJob: %v", err)
		}
		f.jobs = append(f.jobs, j)
	}
	return f
}

func (f *fixture) call(t *testing.T, tool string, args string) (any, error) {
	t.Helper()
	return f.svc.Call(context.Background(), tool, json.RawMessage(args))
}

func TestCall_UnknownTool(t *testing.T) {
	f := newFixture(t)
	if _, err := f.call(t, "send_rockets", `{}`); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("got %v, want ErrUnknownTool", err)
	}
}

func TestSearchJobs_FiltersByPlatform(t *testing.T) {
	f := newFixture(t)

	out, err := f.call(t, domain.ToolSearchJobs, `{"keywords":"analyst","location":"","platforms":["glassdoor"]}`)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	res := out.(SearchResult)
	if res.Count != 1 || res.Jobs[0].Title != "Product Analyst" {
		t.Errorf("got %+v", res)
	}
}

func TestSearchJobs_RejectsUnknownPlatform(t *testing.T) {
	f := newFixture(t)
	if _, err := f.call(t, domain.ToolSearchJobs, `{"keywords":"x","platforms":["monster"]}`); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("got %v, want ErrInvalidArgs", err)
	}
}

func TestSearchJobs_DirectCallSkipsUnknownPlatforms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SearchJobs(ctx, SearchArgs{Keywords: "analyst", Platforms: []string{"monster", "Indeed"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Count != 1 || res.Jobs[0].Title != "Healthcare Business Analyst" {
		t.Errorf("mixed platforms: got %+v", res)
	}

	res, err = f.svc.SearchJobs(ctx, SearchArgs{Keywords: "analyst", Platforms: []string{"monster"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Count != 0 || res.Jobs == nil {
		t.Errorf("unknown platform only: got %+v", res)
	}
}

func TestAnalyzeJobFit_StoredJob(t *testing.T) {
	f := newFixture(t)

	out, err := f.call(t, domain.ToolAnalyzeJobFit, `{"job_id":1}`)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	res := out.(FitResult)
	// business analyst 30 + healthcare 20 + sql 10 + agile 10
	if res.Score != 70 || res.Priority != rank.PriorityMedium {
		t.Errorf("score/priority: %d %s", res.Score, res.Priority)
	}
	if res.JobID != 1 {
		t.Errorf("job id: %d", res.JobID)
	}

	b, _ := json.Marshal(res)
	if !strings.Contains(string(b), `"fit_score":70`) || !strings.Contains(string(b), `"job_id":1`) {
		t.Errorf("wire shape: %s", b)
	}
}

func TestAnalyzeJobFit_NeedsJobOrDescription(t *testing.T) {
	f := newFixture(t)
	if _, err := f.call(t, domain.ToolAnalyzeJobFit, `{}`); !errors.Is(err, ErrInvalidArgs) {
		t.Fatalf("got %v, want ErrInvalidArgs", err)
	}
	out, err := f.call(t, domain.ToolAnalyzeJobFit, `{"job_description":"Senior data analyst, Tableau"}`)
	if err != nil {
		t.Fatalf("pasted description: %v", err)
	}
	if got := out.(FitResult).Score; got != 30 {
		t.Errorf("score: %d", got)
	}
}

func TestGenerateApplication_WritesPackage(t *testing.T) {
	f := newFixture(t)

	out, err := f.call(t, domain.ToolGenerateApplication, `{"job_id":1,"custom_keywords":["HL7"]}`)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	res := out.(GenerateResult)

	wantPrefix := filepath.Join(f.dir, "applications", "medtech-inc_healthcare-business-analyst_20260310_")
	if !strings.HasPrefix(res.FolderPath, wantPrefix) {
		t.Errorf("folder: %s", res.FolderPath)
	}
	b, err := os.ReadFile(filepath.Join(res.FolderPath, summaryFile))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	summary := string(b)
	for _, want := range []string{"# Healthcare Business Analyst at MedTech Inc", "3 days ago", "- HL7", "Template 1"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "<script>") {
		t.Error("description not sanitized")
	}

	app, err := store.LatestApplication(context.Background(), f.db, 1)
	if err != nil {
		t.Fatalf("LatestApplication: %v", err)
	}
	if app.ID != res.ApplicationID || app.FolderPath != res.FolderPath || app.PackageID != res.PackageID {
		t.Errorf("application %+v does not match %+v", app, res)
	}
}

func TestGenerateApplication_MissingJob(t *testing.T) {
	f := newFixture(t)
	if _, err := f.call(t, domain.ToolGenerateApplication, `{"job_id":99}`); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestTrackApplication_FeedsAnalytics(t *testing.T) {
	f := newFixture(t)

	out, err := f.call(t, domain.ToolTrackApplication, `{"job_id":1,"status":"phone screen","notes":"recruiter call","follow_up_date":"2026-03-20"}`)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if got := out.(TrackResult).Status; got != string(domain.StatusPhoneScreen) {
		t.Errorf("status: %q", got)
	}

	out, err = f.call(t, domain.ToolGetAnalytics, `{"metric_type":"response_rate"}`)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	rr := out.(map[string]any)
	if rr["sent"] != 1 || rr["responseRate"] != "100%" {
		t.Errorf("response rate: %v", rr)
	}

	out, err = f.call(t, domain.ToolGetAnalytics, `null`)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if an := out.(domain.Analytics); an.Total != 2 || an.Interviews != 0 {
		t.Errorf("overview: %+v", an)
	}
}

func TestTrackApplication_Validation(t *testing.T) {
	f := newFixture(t)
	for _, args := range []string{
		`{"job_id":1,"status":"ghosted"}`,
		`{"job_id":1,"status":"Applied","follow_up_date":"next week"}`,
		`{"status":"Applied"}`,
	} {
		if _, err := f.call(t, domain.ToolTrackApplication, args); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("%s: got %v", args, err)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"MedTech Inc":        "medtech-inc",
		"  Acme, LLC (US)  ": "acme-llc-us",
		"!!!":                "job",
		"Ernst & Young":      "ernst-young",
	}
	for in, want := range cases {
		if got := slug(in, 30); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
