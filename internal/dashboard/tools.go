package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"jobdash-engine/internal/domain"
)

type searchResult struct {
	Jobs []domain.JobRecord `json:"jobs"`
}

type fitResult struct {
	FitView
	JobID json.Number `json:"job_id"`
}

type generateResult struct {
	FolderPath string `json:"folder_path"`
}

// invokeTool sends one tool request and dispatches the result. Failures become
// an error banner; nothing is retried.
func (c *Controller) invokeTool(ctx context.Context, tool string, args any) {
	if c.remote == nil {
		c.log.Error("tool invocation without remote client", zap.String("tool", tool))
		c.ShowStatus("Error calling tool service", StatusError)
		return
	}

	raw, err := c.remote.CallTool(ctx, tool, args)
	if err != nil {
		c.log.Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
		c.ShowStatus("Error calling tool service", StatusError)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.handleToolResult(tool, raw); err != nil {
		c.log.Warn("tool result unreadable", zap.String("tool", tool), zap.Error(err))
		c.showStatus("Error calling tool service", StatusError)
	}
}

func (c *Controller) handleToolResult(tool string, raw json.RawMessage) error {
	switch tool {
	case domain.ToolSearchJobs:
		var res searchResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return err
		}
		if res.Jobs == nil {
			res.Jobs = []domain.JobRecord{}
		}
		c.displaySearchResults(res.Jobs)
	case domain.ToolGenerateApplication:
		var res generateResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return err
		}
		c.showStatus(fmt.Sprintf("Package generated: %s", res.FolderPath), StatusSuccess)
		c.bumpCounter(IDPackagesGenerated, 1)
	case domain.ToolAnalyzeJobFit:
		var res fitResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return err
		}
		v := res.FitView
		v.JobID = res.JobID.String()
		c.displayAnalysis(v)
	default:
		c.log.Info("tool result", zap.String("tool", tool), zap.ByteString("result", raw))
	}
	return nil
}
