package preview

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
	"norelock.dev/drumline/backend/internal/utils"
)

// audioExtensions are the extensions for which a rejected HEAD is retried
// with a ranged GET. Servers that refuse HEAD for audio files generally
// still answer byte-range requests.
var audioExtensions = []string{".ogg", ".mp3"}

// Probe outcomes as reported to metrics.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeCancelled   = "cancelled"
)

// Metrics receives probe and resolution outcome notifications.
type Metrics interface {
	RecordProbe(method, outcome string)
	RecordProbeCacheHit()
	RecordResolution(outcome string)
}

// Prober performs HTTP existence checks for preview URLs and memoizes the
// outcomes process-wide. Concurrent probes of the same URL share one
// underlying request.
type Prober struct {
	client  *http.Client
	logger  *utils.Logger
	metrics Metrics

	group singleflight.Group

	mu      sync.RWMutex
	settled map[string]bool
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithHTTPClient sets the HTTP client used for probe requests. Timeouts and
// aborts are the client's; the prober adds none of its own.
func WithHTTPClient(client *http.Client) ProberOption {
	return func(p *Prober) {
		p.client = client
	}
}

// WithProbeMetrics sets the metrics sink for probe outcomes.
func WithProbeMetrics(m Metrics) ProberOption {
	return func(p *Prober) {
		p.metrics = m
	}
}

// NewProber creates a new availability prober.
func NewProber(logger *utils.Logger, opts ...ProberOption) *Prober {
	p := &Prober{
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.Named("preview_prober"),
		settled: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// IsAvailable reports whether the resource at rawURL can currently be
// fetched. Outcomes are cached per exact URL until ClearCache; concurrent
// calls for one URL collapse into a single request. The only returned error
// is a cancellation, which is propagated uncached so a later call probes
// afresh.
func (p *Prober) IsAvailable(ctx context.Context, rawURL string) (bool, error) {
	// data: and blob: payloads are already resident; no request needed.
	if strings.HasPrefix(rawURL, "data:") || strings.HasPrefix(rawURL, "blob:") {
		return true, nil
	}

	if available, ok := p.cached(rawURL); ok {
		if p.metrics != nil {
			p.metrics.RecordProbeCacheHit()
		}
		return available, nil
	}

	result, err, _ := p.group.Do(rawURL, func() (any, error) {
		// A concurrent winner may have settled the URL while this call
		// waited on the flight group.
		if available, ok := p.cached(rawURL); ok {
			return available, nil
		}

		available, err := p.probe(ctx, rawURL)
		if err != nil {
			// Cancelled; leave the URL eligible for a fresh probe.
			return false, err
		}

		p.mu.Lock()
		p.settled[rawURL] = available
		p.mu.Unlock()
		return available, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// ClearCache drops every settled outcome and returns how many were dropped.
// In-flight probes are unaffected.
func (p *Prober) ClearCache() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.settled)
	p.settled = make(map[string]bool)
	return n
}

func (p *Prober) cached(rawURL string) (bool, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	available, ok := p.settled[rawURL]
	return available, ok
}

// probe runs the two-tier existence check: HEAD first, then a ranged GET for
// the first byte when the server plausibly rejected HEAD itself. A non-nil
// error is always a cancellation.
func (p *Prober) probe(ctx context.Context, rawURL string) (bool, error) {
	status, err := p.request(ctx, http.MethodHead, rawURL)
	if err != nil {
		// Only a caller-initiated abort propagates; a client timeout on a
		// dead server is an ordinary transport failure.
		if ctx.Err() != nil {
			p.record(http.MethodHead, OutcomeCancelled)
			return false, err
		}
		// Transport failure; nothing reached the application layer.
		status = 0
	}

	if status >= 200 && status < 300 {
		p.record(http.MethodHead, OutcomeAvailable)
		return true, nil
	}

	if !hasAudioExtension(rawURL) || !headRejected(status) {
		p.record(http.MethodHead, OutcomeUnavailable)
		return false, nil
	}

	p.logger.Debug("HEAD rejected, retrying with ranged GET", "url", rawURL, "status", status)

	status, err = p.request(ctx, http.MethodGet, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			p.record(http.MethodGet, OutcomeCancelled)
			return false, err
		}
		p.record(http.MethodGet, OutcomeUnavailable)
		return false, nil
	}

	available := status >= 200 && status < 300
	if available {
		p.record(http.MethodGet, OutcomeAvailable)
	} else {
		p.record(http.MethodGet, OutcomeUnavailable)
	}
	return available, nil
}

// request issues a single probe request and returns the response status.
// GET requests ask for the first byte only.
func (p *Prober) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}

func (p *Prober) record(method, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordProbe(method, outcome)
	}
}

// headRejected reports whether a HEAD failure is one a server plausibly
// produces when it rejects the method itself: 403, 405, 501, or transport
// status 0.
func headRejected(status int) bool {
	switch status {
	case 0, http.StatusForbidden, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	default:
		return false
	}
}

// hasAudioExtension reports whether the URL path, ignoring query and
// fragment, ends in a recognized audio extension.
func hasAudioExtension(rawURL string) bool {
	path := rawURL
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	path = strings.ToLower(path)

	return lo.SomeBy(audioExtensions, func(ext string) bool {
		return strings.HasSuffix(path, ext)
	})
}
