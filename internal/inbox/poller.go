package inbox

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"jobdash-engine/internal/scheduler"
)

// Status is the outcome of the most recent scan.
type Status struct {
	Running     bool   `json:"running"`
	LastRunAt   string `json:"lastRunAt,omitempty"`
	LastOkAt    string `json:"lastOkAt,omitempty"`
	LastScanned int    `json:"lastScanned"`
	LastUpdated int    `json:"lastUpdated"`
	LastError   string `json:"lastError,omitempty"`
}

// Poller runs the scanner on an interval and keeps the latest Status.
type Poller struct {
	Scanner  *Scanner
	Interval time.Duration
	OnUpdate func(Update)
	OnScan   func(Result)

	status atomic.Value
}

func (p *Poller) Status() Status {
	if st, ok := p.status.Load().(Status); ok {
		return st
	}
	return Status{}
}

// Run blocks until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	scheduler.Every(ctx, p.Interval, "inbox", p.Scanner.log(), p.RunOnce)
	return nil
}

// RunOnce performs one scan and records its status. A disabled mailbox is not an error.
func (p *Poller) RunOnce(ctx context.Context) error {
	st := p.Status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	p.status.Store(st)

	sctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	res, err := p.Scanner.ScanOnce(sctx)

	st.Running = false
	if errors.Is(err, ErrDisabled) {
		p.status.Store(st)
		return nil
	}
	if err != nil {
		st.LastError = err.Error()
		p.status.Store(st)
		return err
	}

	st.LastError = ""
	st.LastOkAt = time.Now().Format(time.RFC3339)
	st.LastScanned = res.Scanned
	st.LastUpdated = len(res.Updates)
	p.status.Store(st)

	for _, u := range res.Updates {
		if p.OnUpdate != nil {
			p.OnUpdate(u)
		}
	}
	if p.OnScan != nil {
		p.OnScan(res)
	}
	p.Scanner.log().Info("inbox scanned", zap.Int("scanned", res.Scanned), zap.Int("updated", len(res.Updates)))
	return nil
}
