package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"jobdash-engine/internal/domain"
)

// GeneratePackage asks for a job id and generates a package for it.
func (c *Controller) GeneratePackage(ctx context.Context) {
	c.generatePackage(ctx, c.prompter)
}

func (c *Controller) generatePackage(ctx context.Context, p Prompter) {
	jobID, ok := p.Prompt("Enter Job ID to generate package for:")
	jobID = strings.TrimSpace(jobID)
	if !ok || jobID == "" {
		return
	}
	c.GenerateForJob(ctx, jobID)
}

// GenerateForJob produces an application package and bumps the packages counter.
func (c *Controller) GenerateForJob(ctx context.Context, jobID string) {
	c.ShowStatus(fmt.Sprintf("Generating application package for Job #%s...", jobID), StatusInfo)

	if c.mode == ModeRemote {
		id, err := strconv.ParseInt(jobID, 10, 64)
		if err != nil {
			c.ShowStatus(fmt.Sprintf("Invalid job id %q", jobID), StatusError)
			return
		}
		c.invokeTool(ctx, domain.ToolGenerateApplication, map[string]any{"job_id": id})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.after(GenerateDelay, func() {
		c.showStatus(fmt.Sprintf("✅ Package generated for Job #%s! Check applications/folder", jobID), StatusSuccess)
		c.bumpCounter(IDPackagesGenerated, 1)
	})
}

// BulkApply generates BulkPackages packages, one per BulkTick, after confirmation.
func (c *Controller) BulkApply(ctx context.Context) {
	c.bulkApply(ctx, c.prompter)
}

func (c *Controller) bulkApply(ctx context.Context, p Prompter) {
	msg := fmt.Sprintf("Generate packages for all HIGH priority jobs? This will create %d application packages.", BulkPackages)
	if !p.Confirm(msg) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.showStatus("Generating bulk applications...", StatusInfo)

	count := 0
	var tick func()
	tick = func() {
		count++
		c.showStatus(fmt.Sprintf("Generated package %d of %d...", count, BulkPackages), StatusInfo)
		if count >= BulkPackages {
			c.showStatus(fmt.Sprintf("✅ Successfully generated %d application packages!", BulkPackages), StatusSuccess)
			c.bumpCounter(IDPackagesGenerated, BulkPackages)
			return
		}
		c.after(BulkTick, tick)
	}
	c.after(BulkTick, tick)
}

// AddToDatabase records a search result and bumps the total jobs counter.
func (c *Controller) AddToDatabase(ctx context.Context, jobTitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showStatus(fmt.Sprintf("Added \"%s\" to database", jobTitle), StatusSuccess)
	c.bumpCounter(IDTotalJobs, 1)
	c.analytics.Total, _ = c.doc.Text(IDTotalJobs)
}
