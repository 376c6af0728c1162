package domain

// Analytics is the summary served to the dashboard. JSON names are the wire
// contract of GET /api/analytics.
type Analytics struct {
	Total        int            `json:"total"`
	Sent         int            `json:"sent"`
	ResponseRate string         `json:"responseRate"`
	Interviews   int            `json:"interviews"`
	Pipeline     map[string]int `json:"pipeline,omitempty"`
}
