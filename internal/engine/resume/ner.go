package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"golang.org/x/time/rate"
)

// ErrServiceUnavailable signals a systemic NER outage: the service could not
// be reached on the very first chunk. Unlike per-chunk failures it aborts the
// whole extraction and is surfaced to the caller as retryable.
var ErrServiceUnavailable = errors.New("ner service unavailable")

// Entity is one span returned by the NER service. Start/End are chunk-local
// until ExtractEntities remaps them into document coordinates.
type Entity struct {
	Text       string   `json:"text"`
	Label      string   `json:"label"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// NERConfig configures the client. Values come from engine.Config in
// production; tests inject an httptest server URL.
type NERConfig struct {
	ServiceURL   string        // base URL; chunks are POSTed to <ServiceURL>/extract
	Timeout      time.Duration // per-chunk request timeout (default 30s)
	RateLimit    float64       // outbound requests/sec (0 = unlimited)
	MaxRetries   int           // transient-failure retries per chunk
	MaxChunkSize int
	MaxChunks    int // cap on chunks per document (0 = unlimited)
	HTTPClient   *http.Client
}

// NERClient talks to the external entity recognition service, one chunk per
// request, sequentially. Sequential calls bound load on the service and keep
// offset bookkeeping free of reordering races.
type NERClient struct {
	baseURL      string
	timeout      time.Duration
	retry        engine.RetryConfig
	maxChunkSize int
	maxChunks    int
	limiter      *rate.Limiter
	http         *http.Client
}

// NewNERClient creates a NER service client.
func NewNERClient(c NERConfig) *NERClient {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	retry := engine.DefaultRetryConfig
	retry.MaxRetries = c.MaxRetries
	var limiter *rate.Limiter
	if c.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.RateLimit), 1)
	}
	return &NERClient{
		baseURL:      c.ServiceURL,
		timeout:      timeout,
		retry:        retry,
		maxChunkSize: c.MaxChunkSize,
		maxChunks:    c.MaxChunks,
		limiter:      limiter,
		http:         hc,
	}
}

// ExtractResult is the orchestrator output: document-coordinate entities plus
// chunk accounting for observability.
type ExtractResult struct {
	Entities        []Entity
	ChunksProcessed int
	ChunksFailed    int
}

// ExtractEntities chunks the normalized text, sends each chunk to the NER
// service, and remaps entity offsets by the owning chunk's SourceOffset.
// A failed chunk is skipped (its entities are lost) and processing continues;
// only a connection-level failure on the first chunk aborts, wrapped in
// ErrServiceUnavailable.
func (c *NERClient) ExtractEntities(ctx context.Context, text string) (*ExtractResult, error) {
	chunks := SplitChunks(text, c.maxChunkSize)
	if c.maxChunks > 0 && len(chunks) > c.maxChunks {
		dropped := len(chunks) - c.maxChunks
		slog.Warn("chunk cap exceeded, tail dropped",
			slog.Int("chunks", len(chunks)),
			slog.Int("cap", c.maxChunks),
		)
		engine.Metrics.ChunksFailed.Add(int64(dropped))
		chunks = chunks[:c.maxChunks]
	}

	res := &ExtractResult{}
	for i, ch := range chunks {
		entities, err := c.recognize(ctx, ch.Text)
		res.ChunksProcessed++
		engine.Metrics.ChunksProcessed.Add(1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if i == 0 && isConnFailure(err) {
				return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
			}
			res.ChunksFailed++
			engine.Metrics.ChunksFailed.Add(1)
			slog.Warn("chunk skipped",
				slog.Int("chunk", i),
				slog.Int("size", len(ch.Text)),
				slog.Any("error", err),
			)
			continue
		}
		for _, e := range entities {
			e.Start += ch.SourceOffset
			e.End += ch.SourceOffset
			res.Entities = append(res.Entities, e)
		}
	}

	engine.Metrics.EntitiesExtracted.Add(int64(len(res.Entities)))
	return res, nil
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Entities []Entity `json:"entities"`
}

// recognize sends one chunk to the NER service and decodes its entities.
func (c *NERClient) recognize(ctx context.Context, text string) ([]Entity, error) {
	engine.Metrics.NERRequests.Add(1)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("ner request encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := engine.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.http.Do(req)
	})
	if err != nil {
		engine.Metrics.NERErrors.Add(1)
		return nil, fmt.Errorf("ner request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		engine.Metrics.NERErrors.Add(1)
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ner: status %d: %s", resp.StatusCode, engine.TruncateRunes(string(b), 200, "..."))
	}

	var data nerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		engine.Metrics.NERErrors.Add(1)
		return nil, fmt.Errorf("ner response decode: %w", err)
	}
	return data.Entities, nil
}

// isConnFailure reports whether err is a connection-level failure (dial
// refused, DNS) rather than a timeout or a service-level rejection. Only
// these indicate the service is down outright.
func isConnFailure(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
