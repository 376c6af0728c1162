package remote

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter paces dashboard calls to the analytics and tool endpoints.
// Each host gets its own token bucket, so a remote tool service and the
// local engine never share a budget.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
}

func NewHostLimiter(perSecond float64, burst int) *HostLimiter {
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Wait blocks until a request to rawURL may go out or ctx ends.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	return l.bucket(hostKey(rawURL)).Wait(ctx)
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[host] = b
	}
	return b
}

// hostKey is the lower-cased host:port; unparseable or relative URLs share "".
func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
