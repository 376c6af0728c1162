package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"jobdash-engine/internal/domain"
)

func simulatedAnalysis(jobID string) FitView {
	return FitView{
		JobID:   jobID,
		Score:   85,
		Verdict: "Strong Match - HIGH PRIORITY",
		Strengths: []string{
			"Healthcare experience aligns perfectly",
			"Required business analysis skills present",
			"Strong match for technical requirements",
		},
		Improvements: []string{
			"Emphasize project management experience",
			"Add more data visualization examples",
		},
		Recommendation: "Apply immediately with Template 2 (Healthcare focus)",
	}
}

// AnalyzeJob shows a fit analysis for the job in the modal.
func (c *Controller) AnalyzeJob(ctx context.Context, jobID string) {
	c.ShowStatus(fmt.Sprintf("Analyzing fit for Job #%s...", jobID), StatusInfo)

	if c.mode == ModeRemote {
		id, err := strconv.ParseInt(jobID, 10, 64)
		if err != nil {
			c.ShowStatus(fmt.Sprintf("Invalid job id %q", jobID), StatusError)
			return
		}
		c.invokeTool(ctx, domain.ToolAnalyzeJobFit, map[string]any{"job_id": id})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.after(AnalyzeDelay, func() {
		c.displayAnalysis(simulatedAnalysis(jobID))
	})
}

func (c *Controller) displayAnalysis(v FitView) {
	c.openModal(c.render("analysis", v))
}
