package domain

import "encoding/json"

// Tool names understood by the tool service.
const (
	ToolSearchJobs          = "search_jobs"
	ToolGenerateApplication = "generate_application"
	ToolAnalyzeJobFit       = "analyze_job_fit"
	ToolTrackApplication    = "track_application"
	ToolGetAnalytics        = "get_analytics"
)

// ToolRequest is the body of POST /api/mcp/tool.
type ToolRequest struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}
