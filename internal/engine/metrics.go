package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the extraction pipeline.
// Exported so sub-packages (resume) can increment directly.
var Metrics struct {
	ExtractRequests   atomic.Int64 // full pipeline runs
	NERRequests       atomic.Int64 // per-chunk calls to the NER service
	NERErrors         atomic.Int64 // failed per-chunk calls (after retries)
	ChunksProcessed   atomic.Int64
	ChunksFailed      atomic.Int64 // skipped chunks (failures + cap overflow)
	EntitiesExtracted atomic.Int64 // raw entities returned by the service
	EntitiesDropped   atomic.Int64 // entities removed by the sanitizer
	FileExtracts      atomic.Int64 // document-to-text conversions
	FileExtractErrors atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"extract_requests":    Metrics.ExtractRequests.Load(),
		"ner_requests":        Metrics.NERRequests.Load(),
		"ner_errors":          Metrics.NERErrors.Load(),
		"chunks_processed":    Metrics.ChunksProcessed.Load(),
		"chunks_failed":       Metrics.ChunksFailed.Load(),
		"entities_extracted":  Metrics.EntitiesExtracted.Load(),
		"entities_dropped":    Metrics.EntitiesDropped.Load(),
		"file_extracts":       Metrics.FileExtracts.Load(),
		"file_extract_errors": Metrics.FileExtractErrors.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"extract_requests",
		"ner_requests", "ner_errors",
		"chunks_processed", "chunks_failed",
		"entities_extracted", "entities_dropped",
		"file_extracts", "file_extract_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
