package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
// The NER service URL lives here rather than in a package constant so tests
// and alternate deployments can point the pipeline anywhere.
type Config struct {
	NERServiceURL        string        // base URL of the entity recognition service
	NERTimeout           time.Duration // per-chunk request timeout
	NERRateLimit         float64       // outbound requests/sec to the NER service (0 = unlimited)
	NERMaxRetries        int           // transient-failure retries per chunk
	MaxChunkSize         int           // max characters per NER request
	MaxChunks            int           // defensive cap on chunks per document (0 = unlimited)
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (resume, resumeserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.NERTimeout <= 0 {
		c.NERTimeout = 30 * time.Second
	}
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = 2000
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.NERTimeout}
	}
	cfg = c
	Cfg = &cfg
}
