// Package dashboard drives the job-search dashboard page: it owns the page's
// transient UI state and implements every user action against a dom.Document.
package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobdash-engine/internal/clock"
	"jobdash-engine/internal/dom"
	"jobdash-engine/internal/domain"
)

// Element ids of the page template.
const (
	IDTotalJobs         = "total-jobs"
	IDApplicationsSent  = "applications-sent"
	IDResponseRate      = "response-rate"
	IDInterviews        = "interviews"
	IDPackagesGenerated = "total-packages-generated"
	IDStatus            = "status-message"
	IDModal             = "modal"
	IDModalBody         = "modal-body"
	IDPriorityList      = "priority-list"
	IDSearchResults     = "search-results"
	IDSearchKeywords    = "search-keywords"
	IDSearchLocation    = "search-location"
	IDSearchPlatforms   = "search-platforms"
	IDPipelineChart     = "pipeline-chart"
	IDVelocityChart     = "velocity-chart"
	IDTemplateChart     = "template-chart"
)

// Simulated latencies and status lifetime.
const (
	SearchDelay   = 2 * time.Second
	GenerateDelay = 2 * time.Second
	AnalyzeDelay  = 1500 * time.Millisecond
	BulkTick      = time.Second
	BulkPackages  = 5
	StatusTTL     = 3 * time.Second
)

// Mode selects how search, generation and analysis are carried out.
type Mode int

const (
	// ModeSimulated runs canned flows on timers.
	ModeSimulated Mode = iota
	// ModeRemote sends tool invocations to the tool service.
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "simulated"
}

// Remote is the HTTP side of the dashboard.
type Remote interface {
	FetchAnalytics(ctx context.Context) (map[string]any, error)
	CallTool(ctx context.Context, tool string, args any) (json.RawMessage, error)
}

// Prompter asks the user for input.
type Prompter interface {
	Prompt(message string) (string, bool)
	Confirm(message string) bool
}

// Snapshot is the analytics text currently shown on the page.
type Snapshot struct {
	Total        string `json:"total"`
	Sent         string `json:"sent"`
	ResponseRate string `json:"responseRate"`
	Interviews   string `json:"interviews"`
}

type Options struct {
	Doc      dom.Document
	Clock    clock.Scheduler
	Charts   Charts
	Remote   Remote
	Prompter Prompter
	Mode     Mode
	Log      *zap.Logger
}

// Controller holds the page session state. All DOM writes happen under mu.
type Controller struct {
	mu sync.Mutex

	doc      dom.Document
	clock    clock.Scheduler
	charts   Charts
	remote   Remote
	prompter Prompter
	mode     Mode
	log      *zap.Logger

	currentJobs []domain.JobRecord
	analytics   Snapshot
	statusGen   uint64
}

func New(o Options) *Controller {
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Charts == nil {
		o.Charts = NewDOMCharts(o.Doc, o.Log)
	}
	if o.Prompter == nil {
		o.Prompter = denyPrompter{}
	}
	c := &Controller{
		doc:      o.Doc,
		clock:    o.Clock,
		charts:   o.Charts,
		remote:   o.Remote,
		prompter: o.Prompter,
		mode:     o.Mode,
		log:      o.Log.Named("dashboard"),
	}
	c.analytics = c.readSnapshot()
	return c
}

// WithPrompter returns a view of c that asks p instead of the configured prompter.
// The view shares all state with c.
func (c *Controller) WithPrompter(p Prompter) Actions {
	return promptedController{Controller: c, p: p}
}

func (c *Controller) Mode() Mode { return c.mode }

// CurrentJobs returns the job list from the latest search.
func (c *Controller) CurrentJobs() []domain.JobRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.JobRecord(nil), c.currentJobs...)
}

// Analytics returns the analytics values currently displayed.
func (c *Controller) Analytics() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analytics
}

// Initialize runs the page-ready sequence.
func (c *Controller) Initialize(ctx context.Context) {
	c.log.Info("dashboard initialized", zap.Stringer("mode", c.mode))

	c.mu.Lock()
	c.showStatus("Dashboard ready!", StatusSuccess)
	c.loadHighPriorityJobs()
	c.mu.Unlock()

	c.RefreshAnalytics(ctx)

	c.mu.Lock()
	c.initCharts()
	c.mu.Unlock()
}

// loadHighPriorityJobs is a no-op: the priority list is rendered with the page.
func (c *Controller) loadHighPriorityJobs() {}

// after runs f under the controller lock once d has elapsed.
func (c *Controller) after(d time.Duration, f func()) {
	c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		f()
	})
}

func (c *Controller) readSnapshot() Snapshot {
	text := func(id string) string {
		v, _ := c.doc.Text(id)
		return v
	}
	return Snapshot{
		Total:        text(IDTotalJobs),
		Sent:         text(IDApplicationsSent),
		ResponseRate: text(IDResponseRate),
		Interviews:   text(IDInterviews),
	}
}

type denyPrompter struct{}

func (denyPrompter) Prompt(string) (string, bool) { return "", false }
func (denyPrompter) Confirm(string) bool          { return false }
