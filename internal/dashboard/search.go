package dashboard

import (
	"context"
	"fmt"

	"jobdash-engine/internal/domain"
)

var simulatedResults = []domain.JobRecord{
	{Title: "Senior Business Analyst", Company: "Tech Corp", Location: "Remote", Platform: domain.PlatformLinkedIn},
	{Title: "Healthcare Data Analyst", Company: "MedTech Inc", Location: "Louisville, KY", Platform: domain.PlatformIndeed},
	{Title: "Product Analyst", Company: "StartupCo", Location: "Remote", Platform: domain.PlatformGlassdoor},
}

// SearchJobs opens the modal with a loading view and, after SearchDelay,
// replaces it with the canned results.
func (c *Controller) SearchJobs(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.openModal(c.render("search-loading", nil))

	c.after(SearchDelay, func() {
		results := append([]domain.JobRecord(nil), simulatedResults...)
		c.currentJobs = results
		c.doc.SetHTML(IDModalBody, c.render("search-modal", results))
	})
}

type searchArgs struct {
	Keywords  string   `json:"keywords"`
	Location  string   `json:"location"`
	Platforms []string `json:"platforms"`
}

// PerformSearch runs a search from the form fields.
func (c *Controller) PerformSearch(ctx context.Context) {
	c.mu.Lock()
	args := searchArgs{
		Keywords:  c.doc.Value(IDSearchKeywords),
		Location:  c.doc.Value(IDSearchLocation),
		Platforms: c.doc.SelectedValues(IDSearchPlatforms),
	}
	if args.Platforms == nil {
		args.Platforms = []string{}
	}
	c.showStatus(fmt.Sprintf("Searching for \"%s\" in %s...", args.Keywords, args.Location), StatusInfo)
	c.mu.Unlock()

	if c.mode == ModeRemote {
		c.invokeTool(ctx, domain.ToolSearchJobs, args)
		return
	}
	c.SearchJobs(ctx)
}

func (c *Controller) displaySearchResults(jobs []domain.JobRecord) {
	c.currentJobs = jobs
	if !c.doc.SetHTML(IDSearchResults, c.render("search-results", jobs)) {
		// pages without an inline results pane show them in the modal
		c.openModal(c.render("search-modal", jobs))
	}
}
