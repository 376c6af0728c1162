package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"jobdash-engine/internal/dom"
)

// Charts is the charting widget library.
type Charts interface {
	Create(canvasID string, chart Chart) error
	Refresh(ctx context.Context)
}

type Dataset struct {
	Label           string   `json:"label,omitempty"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	BorderColor     string   `json:"borderColor,omitempty"`
	Tension         float64  `json:"tension,omitempty"`
}

type Chart struct {
	Type     string         `json:"type"`
	Labels   []string       `json:"labels"`
	Datasets []Dataset      `json:"datasets"`
	Options  map[string]any `json:"options,omitempty"`
}

func baseOptions() map[string]any {
	return map[string]any{"responsive": true, "maintainAspectRatio": false}
}

// placeholderCharts are the datasets drawn before any real data exists.
func placeholderCharts() map[string]Chart {
	pipelineOpts := baseOptions()
	pipelineOpts["plugins"] = map[string]any{"legend": map[string]any{"display": false}}

	return map[string]Chart{
		IDPipelineChart: {
			Type:   "bar",
			Labels: []string{"Not Applied", "Applied", "Phone Screen", "Interview", "Offer"},
			Datasets: []Dataset{{
				Label:           "Applications",
				Data:            []int{59, 0, 0, 0, 0},
				BackgroundColor: []string{"#6b7280", "#3b82f6", "#f59e0b", "#10b981", "#059669"},
			}},
			Options: pipelineOpts,
		},
		IDVelocityChart: {
			Type:   "line",
			Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
			Datasets: []Dataset{{
				Label:       "Applications Sent",
				Data:        []int{0, 0, 0, 0, 0},
				BorderColor: "#3b82f6",
				Tension:     0.4,
			}},
			Options: baseOptions(),
		},
		IDTemplateChart: {
			Type:   "doughnut",
			Labels: []string{"Template 1", "Template 2", "Template 3", "Template 4", "Template 5"},
			Datasets: []Dataset{{
				Data:            []int{0, 0, 0, 0, 0},
				BackgroundColor: []string{"#ef4444", "#f59e0b", "#10b981", "#3b82f6", "#8b5cf6"},
			}},
			Options: baseOptions(),
		},
	}
}

var chartOrder = []string{IDPipelineChart, IDVelocityChart, IDTemplateChart}

func (c *Controller) initCharts() {
	charts := placeholderCharts()
	for _, id := range chartOrder {
		if err := c.charts.Create(id, charts[id]); err != nil {
			c.log.Warn("chart init failed", zap.String("canvas", id), zap.Error(err))
		}
	}
}

// DOMCharts hands chart configs to the browser through a data attribute on each canvas.
type DOMCharts struct {
	doc dom.Document
	log *zap.Logger
}

func NewDOMCharts(doc dom.Document, log *zap.Logger) *DOMCharts {
	if log == nil {
		log = zap.NewNop()
	}
	return &DOMCharts{doc: doc, log: log}
}

const ChartAttr = "data-chart"

func (d *DOMCharts) Create(canvasID string, chart Chart) error {
	b, err := json.Marshal(chart)
	if err != nil {
		return err
	}
	if !d.doc.SetAttr(canvasID, ChartAttr, string(b)) {
		return fmt.Errorf("canvas %q not found", canvasID)
	}
	return nil
}

// Refresh has nothing to redraw yet; the placeholders are static.
func (d *DOMCharts) Refresh(ctx context.Context) {
	d.log.Debug("charts updated")
}
