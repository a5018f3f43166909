// go_resume — Resume Entity Extraction MCP server.
//
// Ingests resume documents (PDF, DOCX, plain text), normalizes the extracted
// text, splits it into sentence-aware chunks, runs each chunk through an
// external NER service, and returns a deduplicated, sanitized entity list.
// Exposes three MCP tools: resume_extract, resume_extract_file,
// resume_text_extract. Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/resumeserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	initEngine()

	slog.Info("starting go_resume",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_resume",
		Version: version,
	}, nil)

	resumeserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_resume",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		NERServiceURL:        env.Str("NER_SERVICE_URL", "http://127.0.0.1:5001"),
		NERTimeout:           env.Duration("NER_TIMEOUT", 30*time.Second),
		NERRateLimit:         env.Float("NER_RATE_LIMIT", 10),
		NERMaxRetries:        env.Int("NER_MAX_RETRIES", 1),
		MaxChunkSize:         env.Int("MAX_CHUNK_SIZE", 2000),
		MaxChunks:            env.Int("MAX_CHUNKS", 64),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
