package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobdash-engine/internal/clock"
	"jobdash-engine/internal/dom"
	"jobdash-engine/internal/domain"
)

type fakeRemote struct {
	analytics    map[string]any
	analyticsErr error

	toolResult json.RawMessage
	toolErr    error
	tools      []string
	args       []any
}

func (f *fakeRemote) FetchAnalytics(ctx context.Context) (map[string]any, error) {
	return f.analytics, f.analyticsErr
}

func (f *fakeRemote) CallTool(ctx context.Context, tool string, args any) (json.RawMessage, error) {
	f.tools = append(f.tools, tool)
	f.args = append(f.args, args)
	return f.toolResult, f.toolErr
}

type harness struct {
	page  *dom.Page
	clock *clock.Fake
	ctl   *Controller
}

func newHarness(t *testing.T, remote Remote, mode Mode) *harness {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderPage(&buf, DefaultPageData()); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	page, err := dom.NewPage(buf.String())
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	fc := clock.NewFake(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))
	opts := Options{Doc: page, Clock: fc, Mode: mode}
	if remote != nil {
		opts.Remote = remote
	}
	return &harness{page: page, clock: fc, ctl: New(opts)}
}

func (h *harness) text(t *testing.T, id string) string {
	t.Helper()
	v, ok := h.page.Text(id)
	if !ok {
		t.Fatalf("element %q missing", id)
	}
	return v
}

func (h *harness) titles(selector string) []string {
	var out []string
	h.page.Find(selector, func(s *goquery.Selection) {
		s.Each(func(_ int, el *goquery.Selection) { out = append(out, el.Text()) })
	})
	return out
}

func (h *harness) statusTexts() *[]string {
	var msgs []string
	h.page.Observe(func(p dom.Patch) {
		if p.Op == dom.OpText && p.ID == IDStatus {
			msgs = append(msgs, p.Value)
		}
	})
	return &msgs
}

func TestRefreshAnalytics_PartialPayloadUsesDefaults(t *testing.T) {
	h := newHarness(t, &fakeRemote{analytics: map[string]any{"total": json.Number("42")}}, ModeSimulated)
	h.page.SetText(IDApplicationsSent, "9")

	h.ctl.RefreshAnalytics(context.Background())

	want := map[string]string{
		IDTotalJobs:        "42",
		IDApplicationsSent: "0",
		IDResponseRate:     "0%",
		IDInterviews:       "0",
	}
	for id, v := range want {
		if got := h.text(t, id); got != v {
			t.Errorf("%s: got %q, want %q", id, got, v)
		}
	}
	if got := h.ctl.Analytics().Total; got != "42" {
		t.Errorf("snapshot total: got %q", got)
	}
}

func TestRefreshAnalytics_FullPayload(t *testing.T) {
	h := newHarness(t, &fakeRemote{analytics: map[string]any{
		"total":        json.Number("12"),
		"sent":         json.Number("4"),
		"responseRate": "25%",
		"interviews":   json.Number("1"),
	}}, ModeSimulated)

	h.ctl.RefreshAnalytics(context.Background())

	got := []string{h.text(t, IDTotalJobs), h.text(t, IDApplicationsSent), h.text(t, IDResponseRate), h.text(t, IDInterviews)}
	if !reflect.DeepEqual(got, []string{"12", "4", "25%", "1"}) {
		t.Errorf("stats: got %v", got)
	}
}

func TestRefreshAnalytics_FailureKeepsPriorValues(t *testing.T) {
	h := newHarness(t, &fakeRemote{analyticsErr: errors.New("connection refused")}, ModeSimulated)
	h.page.SetText(IDTotalJobs, "17")
	h.page.SetText(IDApplicationsSent, "5")
	h.page.SetText(IDResponseRate, "20%")
	h.page.SetText(IDInterviews, "2")

	h.ctl.RefreshAnalytics(context.Background())

	got := []string{h.text(t, IDTotalJobs), h.text(t, IDApplicationsSent), h.text(t, IDResponseRate), h.text(t, IDInterviews)}
	if !reflect.DeepEqual(got, []string{"17", "5", "20%", "2"}) {
		t.Errorf("stats changed on failure: %v", got)
	}
}

func TestDisplayValue(t *testing.T) {
	cases := []struct {
		in   any
		def  string
		want string
	}{
		{nil, "60", "60"},
		{json.Number("0"), "60", "60"},
		{json.Number("7"), "60", "7"},
		{"", "0%", "0%"},
		{"33%", "0%", "33%"},
		{false, "0", "0"},
		{float64(3), "0", "3"},
	}
	for _, tc := range cases {
		if got := displayValue(tc.in, tc.def); got != tc.want {
			t.Errorf("displayValue(%#v, %q) = %q, want %q", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestSearchJobs_SimulatedShowsThreeCards(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.SearchJobs(context.Background())

	if !h.page.HasClass(IDModal, "show") {
		t.Fatal("modal not shown")
	}
	if body := h.text(t, IDModalBody); !strings.Contains(body, "Searching") {
		t.Errorf("loading view: got %q", body)
	}

	h.clock.Advance(SearchDelay - time.Millisecond)
	if n := len(h.titles("#modal-body .job-card")); n != 0 {
		t.Fatalf("cards before delay: %d", n)
	}

	h.clock.Advance(time.Millisecond)
	want := []string{"Senior Business Analyst", "Healthcare Data Analyst", "Product Analyst"}
	if got := h.titles("#modal-body .job-card h3"); !reflect.DeepEqual(got, want) {
		t.Errorf("titles: got %v", got)
	}
	if n := len(h.ctl.CurrentJobs()); n != 3 {
		t.Errorf("current jobs: %d", n)
	}
}

func TestPerformSearch_RemoteRendersResults(t *testing.T) {
	rem := &fakeRemote{toolResult: json.RawMessage(`{"jobs":[{"id":3,"title":"Data Analyst","company":"Acme","location":"Remote","platform":"LinkedIn"}]}`)}
	h := newHarness(t, rem, ModeRemote)
	h.page.SetValue(IDSearchKeywords, "data")
	h.page.SetValue(IDSearchLocation, "Remote")
	h.page.SetSelected(IDSearchPlatforms, []string{"indeed"})

	h.ctl.PerformSearch(context.Background())

	if !reflect.DeepEqual(rem.tools, []string{domain.ToolSearchJobs}) {
		t.Fatalf("tools called: %v", rem.tools)
	}
	args, ok := rem.args[0].(searchArgs)
	if !ok || args.Keywords != "data" || !reflect.DeepEqual(args.Platforms, []string{"indeed"}) {
		t.Errorf("args: %#v", rem.args[0])
	}
	if got := h.titles("#search-results .job-card h4"); !reflect.DeepEqual(got, []string{"Data Analyst"}) {
		t.Errorf("result titles: %v", got)
	}
}

func TestPerformSearch_SimulatedFallsBack(t *testing.T) {
	rem := &fakeRemote{}
	h := newHarness(t, rem, ModeSimulated)
	msgs := h.statusTexts()

	h.ctl.PerformSearch(context.Background())
	h.clock.Advance(SearchDelay)

	if len(rem.tools) != 0 {
		t.Errorf("remote called in simulated mode: %v", rem.tools)
	}
	if len(*msgs) == 0 || (*msgs)[0] != `Searching for "business analyst" in Remote...` {
		t.Errorf("status: %v", *msgs)
	}
	if n := len(h.titles("#modal-body .job-card")); n != 3 {
		t.Errorf("cards: %d", n)
	}
}

func TestInvokeTool_FailureShowsErrorStatus(t *testing.T) {
	h := newHarness(t, &fakeRemote{toolErr: errors.New("boom")}, ModeRemote)

	h.ctl.PerformSearch(context.Background())

	if got := h.text(t, IDStatus); got != "Error calling tool service" {
		t.Errorf("status: %q", got)
	}
	if !h.page.HasClass(IDStatus, "error") {
		t.Error("status not error-styled")
	}
}

func TestInvokeTool_GenerateResult(t *testing.T) {
	h := newHarness(t, &fakeRemote{toolResult: json.RawMessage(`{"folder_path":"applications/acme_7"}`)}, ModeRemote)

	h.ctl.GenerateForJob(context.Background(), "7")

	if got := h.text(t, IDStatus); got != "Package generated: applications/acme_7" {
		t.Errorf("status: %q", got)
	}
	if got := h.text(t, IDPackagesGenerated); got != "1" {
		t.Errorf("packages: %q", got)
	}
}

func TestInvokeTool_UnknownToolOnlyLogs(t *testing.T) {
	h := newHarness(t, nil, ModeRemote)
	before, _ := h.page.HTML()

	h.ctl.mu.Lock()
	err := h.ctl.handleToolResult("track_application", json.RawMessage(`{"ok":true}`))
	h.ctl.mu.Unlock()

	if err != nil {
		t.Fatalf("handleToolResult: %v", err)
	}
	if after, _ := h.page.HTML(); after != before {
		t.Error("unknown tool changed the page")
	}
}

func TestGenerateForJob_Simulated(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.GenerateForJob(context.Background(), "7")
	if got := h.text(t, IDPackagesGenerated); got != "0" {
		t.Fatalf("counter bumped early: %q", got)
	}

	h.clock.Advance(GenerateDelay)

	if got := h.text(t, IDStatus); !strings.Contains(got, "7") || !strings.HasPrefix(got, "✅") {
		t.Errorf("status: %q", got)
	}
	if got := h.text(t, IDPackagesGenerated); got != "1" {
		t.Errorf("packages: %q", got)
	}
}

func TestGeneratePackage_PromptCancelled(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)
	msgs := h.statusTexts()

	h.ctl.WithPrompter(StaticPrompter{}).GeneratePackage(context.Background())
	h.clock.Advance(time.Minute)

	if len(*msgs) != 0 {
		t.Errorf("status shown on cancel: %v", *msgs)
	}
	if got := h.text(t, IDPackagesGenerated); got != "0" {
		t.Errorf("packages: %q", got)
	}
}

func TestGeneratePackage_PromptedID(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.WithPrompter(StaticPrompter{Answer: " 12 "}).GeneratePackage(context.Background())
	h.clock.Advance(GenerateDelay)

	if got := h.text(t, IDStatus); !strings.Contains(got, "Job #12!") {
		t.Errorf("status: %q", got)
	}
}

func TestAnalyzeJob_Simulated(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.AnalyzeJob(context.Background(), "4")
	if got := h.text(t, IDStatus); got != "Analyzing fit for Job #4..." {
		t.Errorf("status: %q", got)
	}
	if h.page.HasClass(IDModal, "show") {
		t.Fatal("modal shown before delay")
	}

	h.clock.Advance(AnalyzeDelay)

	body := h.text(t, IDModalBody)
	for _, want := range []string{"Fit Score: 85%", "Strong Match - HIGH PRIORITY"} {
		if !strings.Contains(body, want) {
			t.Errorf("analysis missing %q", want)
		}
	}
	if n := len(h.titles("#modal-body .strengths li")); n != 3 {
		t.Errorf("strengths: %d", n)
	}
	if n := len(h.titles("#modal-body .improvements li")); n != 2 {
		t.Errorf("improvements: %d", n)
	}
	var arg string
	h.page.Find(`#modal-body [data-action="generate-for-job"]`, func(s *goquery.Selection) {
		arg, _ = s.Attr("data-arg")
	})
	if arg != "4" {
		t.Errorf("generate button arg: %q", arg)
	}
}

func TestInvokeTool_AnalysisWithoutJobHidesGenerate(t *testing.T) {
	h := newHarness(t, nil, ModeRemote)

	generateButtons := func() int {
		return len(h.titles(`#modal-body [data-action="generate-for-job"]`))
	}

	h.ctl.mu.Lock()
	err := h.ctl.handleToolResult(domain.ToolAnalyzeJobFit, json.RawMessage(
		`{"fit_score":30,"verdict":"Weak Match - LOW PRIORITY","strengths":[],"improvements":["Add SQL"],"recommendation":"Skip"}`))
	h.ctl.mu.Unlock()
	if err != nil {
		t.Fatalf("handleToolResult: %v", err)
	}
	if !strings.Contains(h.text(t, IDModalBody), "Fit Score: 30%") {
		t.Error("analysis not shown")
	}
	if n := generateButtons(); n != 0 {
		t.Errorf("generate buttons without a job: %d", n)
	}

	h.ctl.mu.Lock()
	err = h.ctl.handleToolResult(domain.ToolAnalyzeJobFit, json.RawMessage(`{"job_id":12,"fit_score":70}`))
	h.ctl.mu.Unlock()
	if err != nil {
		t.Fatalf("handleToolResult: %v", err)
	}
	if n := generateButtons(); n != 1 {
		t.Errorf("generate buttons with a job: %d", n)
	}
}

func TestBulkApply_FiveTicks(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)
	msgs := h.statusTexts()

	h.ctl.WithPrompter(StaticPrompter{Confirmed: true}).BulkApply(context.Background())
	h.clock.Advance(BulkTick * BulkPackages)

	var progress []string
	for _, m := range *msgs {
		if strings.HasPrefix(m, "Generated package ") {
			progress = append(progress, m)
		}
	}
	if len(progress) != 5 || progress[4] != "Generated package 5 of 5..." {
		t.Errorf("progress: %v", progress)
	}
	all := *msgs
	if last := all[len(all)-1]; last != "✅ Successfully generated 5 application packages!" {
		t.Errorf("final: %q", last)
	}
	if got := h.text(t, IDPackagesGenerated); got != "5" {
		t.Errorf("packages: %q", got)
	}
}

func TestBulkApply_Declined(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.BulkApply(context.Background())

	if n := h.clock.Pending(); n != 0 {
		t.Errorf("timers scheduled: %d", n)
	}
	if got := h.text(t, IDPackagesGenerated); got != "0" {
		t.Errorf("packages: %q", got)
	}
}

func TestAddToDatabase(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.AddToDatabase(context.Background(), "Product Analyst")

	if got := h.text(t, IDStatus); got != `Added "Product Analyst" to database` {
		t.Errorf("status: %q", got)
	}
	if got := h.text(t, IDTotalJobs); got != "61" {
		t.Errorf("total: %q", got)
	}
}

func TestShowStatus_HidesAfterTTL(t *testing.T) {
	for _, typ := range []StatusType{StatusInfo, StatusSuccess, StatusError} {
		h := newHarness(t, nil, ModeSimulated)

		h.ctl.ShowStatus("hello", typ)
		if !h.page.HasClass(IDStatus, "show") {
			t.Fatalf("%s: not visible", typ)
		}
		if got := h.page.HasClass(IDStatus, "error"); got != (typ == StatusError) {
			t.Errorf("%s: error class = %v", typ, got)
		}

		h.clock.Advance(StatusTTL - time.Millisecond)
		if !h.page.HasClass(IDStatus, "show") {
			t.Errorf("%s: hidden early", typ)
		}
		h.clock.Advance(time.Millisecond)
		if h.page.HasClass(IDStatus, "show") {
			t.Errorf("%s: still visible", typ)
		}
	}
}

func TestShowStatus_LatestOwnsHide(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)

	h.ctl.ShowStatus("first", StatusInfo)
	h.clock.Advance(2 * time.Second)
	h.ctl.ShowStatus("second", StatusInfo)

	h.clock.Advance(time.Second)
	if !h.page.HasClass(IDStatus, "show") {
		t.Fatal("first timer hid the newer status")
	}
	h.clock.Advance(2 * time.Second)
	if h.page.HasClass(IDStatus, "show") {
		t.Error("second status never hidden")
	}
}

func TestCloseModal(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)
	h.ctl.SearchJobs(context.Background())

	h.ctl.CloseModal(context.Background())

	if h.page.HasClass(IDModal, "show") {
		t.Error("modal still shown")
	}
}

func TestInitialize(t *testing.T) {
	h := newHarness(t, &fakeRemote{analytics: map[string]any{"total": json.Number("3")}}, ModeSimulated)
	msgs := h.statusTexts()

	h.ctl.Initialize(context.Background())

	if len(*msgs) == 0 || (*msgs)[0] != "Dashboard ready!" {
		t.Errorf("status: %v", *msgs)
	}
	if got := h.text(t, IDTotalJobs); got != "3" {
		t.Errorf("total: %q", got)
	}
	types := map[string]string{IDPipelineChart: "bar", IDVelocityChart: "line", IDTemplateChart: "doughnut"}
	for id, typ := range types {
		var raw string
		h.page.Find("#"+id, func(s *goquery.Selection) { raw, _ = s.Attr(ChartAttr) })
		var c Chart
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if c.Type != typ {
			t.Errorf("%s: type %q, want %q", id, c.Type, typ)
		}
	}
}

func TestDispatch(t *testing.T) {
	h := newHarness(t, nil, ModeSimulated)
	ctx := context.Background()

	if err := Dispatch(ctx, h.ctl, ActionAddToDatabase, "QA Analyst"); err != nil {
		t.Fatalf("add-to-database: %v", err)
	}
	if got := h.text(t, IDTotalJobs); got != "61" {
		t.Errorf("total: %q", got)
	}
	if err := Dispatch(ctx, h.ctl, "launch-rockets", ""); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown action: %v", err)
	}
	if err := Dispatch(ctx, h.ctl, ActionAnalyzeJob, ""); !errors.Is(err, ErrMissingArg) {
		t.Errorf("missing arg: %v", err)
	}
}
