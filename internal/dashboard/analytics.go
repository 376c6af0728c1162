package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Displayed when the endpoint omits a field.
const (
	DefaultTotal        = "60"
	DefaultSent         = "0"
	DefaultResponseRate = "0%"
	DefaultInterviews   = "0"
)

// RefreshAnalytics fetches the analytics snapshot and writes it into the stat
// cards. On failure the previous values stay. Charts refresh either way.
func (c *Controller) RefreshAnalytics(ctx context.Context) {
	c.ShowStatus("Refreshing analytics...", StatusInfo)
	defer c.charts.Refresh(ctx)

	if c.remote == nil {
		c.log.Debug("no analytics endpoint; using fallback analytics")
		return
	}
	data, err := c.remote.FetchAnalytics(ctx)
	if err != nil {
		c.log.Info("using fallback analytics", zap.Error(err))
		return
	}

	snap := Snapshot{
		Total:        displayValue(data["total"], DefaultTotal),
		Sent:         displayValue(data["sent"], DefaultSent),
		ResponseRate: displayValue(data["responseRate"], DefaultResponseRate),
		Interviews:   displayValue(data["interviews"], DefaultInterviews),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.SetText(IDTotalJobs, snap.Total)
	c.doc.SetText(IDApplicationsSent, snap.Sent)
	c.doc.SetText(IDResponseRate, snap.ResponseRate)
	c.doc.SetText(IDInterviews, snap.Interviews)
	c.analytics = snap
}

// displayValue renders a decoded JSON field, substituting def for missing,
// null, false, zero and empty values.
func displayValue(v any, def string) string {
	switch x := v.(type) {
	case nil:
		return def
	case bool:
		if !x {
			return def
		}
		return "true"
	case string:
		if x == "" {
			return def
		}
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return def
		}
		return x.String()
	case float64:
		if x == 0 {
			return def
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
