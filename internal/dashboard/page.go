package dashboard

import (
	_ "embed"
	"html/template"
	"io"

	"jobdash-engine/internal/domain"
)

//go:embed page.html
var pageMarkup string

var pageTmpl = template.Must(template.New("page").Parse(pageMarkup))

// PageData seeds the server-rendered parts of the dashboard page.
type PageData struct {
	Stats        Snapshot
	Packages     int
	Keywords     string
	Location     string
	PriorityJobs []domain.Job
}

// DefaultPageData is what a fresh page shows before analytics arrive.
func DefaultPageData() PageData {
	return PageData{
		Stats: Snapshot{
			Total:        DefaultTotal,
			Sent:         DefaultSent,
			ResponseRate: DefaultResponseRate,
			Interviews:   DefaultInterviews,
		},
		Keywords: "business analyst",
		Location: "Remote",
	}
}

func RenderPage(w io.Writer, data PageData) error {
	return pageTmpl.Execute(w, data)
}
