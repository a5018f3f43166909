// Package resume implements the resume-to-entity extraction pipeline:
// text normalization, sentence-aware chunking, fault-tolerant orchestration
// against an external NER service, and entity sanitization. The pipeline is
// stateless per request — nothing persists across invocations.
package resume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

// ErrEmptyDocument means the input contained no extractable text after
// normalization. Surfaced to callers as a user-actionable failure.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Pipeline composes normalize → chunk → NER → sanitize into a single call.
// This is the only surface the tool layer talks to.
type Pipeline struct {
	ner *NERClient
}

// NewPipeline wires the facade around a NER client.
func NewPipeline(ner *NERClient) *Pipeline {
	return &Pipeline{ner: ner}
}

// Result carries the sanitized entities plus pipeline metadata.
type Result struct {
	Entities        []SanitizedEntity
	NormalizedText  string
	ChunksProcessed int
}

// ExtractOutput is the wire shape returned to clients.
type ExtractOutput struct {
	Success   bool              `json:"success"`
	Extracted []SanitizedEntity `json:"extracted"`
	Metadata  ExtractMetadata   `json:"metadata"`
}

// ExtractMetadata exposes pipeline observability counters per request.
type ExtractMetadata struct {
	TotalEntities   int `json:"total_entities"`
	ChunksProcessed int `json:"chunks_processed"`
	TextLength      int `json:"text_length"`
}

// Output converts a pipeline Result into the client wire shape.
func (r *Result) Output() *ExtractOutput {
	return &ExtractOutput{
		Success:   true,
		Extracted: r.Entities,
		Metadata: ExtractMetadata{
			TotalEntities:   len(r.Entities),
			ChunksProcessed: r.ChunksProcessed,
			TextLength:      len(r.NormalizedText),
		},
	}
}

// Process runs the full pipeline on raw document text. It fails only when the
// text normalizes to empty or the NER service is systemically unreachable
// (ErrServiceUnavailable); per-chunk losses are absorbed silently and exposed
// via ChunksProcessed only.
func (p *Pipeline) Process(ctx context.Context, rawText string) (*Result, error) {
	engine.Metrics.ExtractRequests.Add(1)

	normalized := Normalize(rawText)
	if normalized == "" {
		return nil, ErrEmptyDocument
	}

	extracted, err := p.ner.ExtractEntities(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("entity extraction: %w", err)
	}

	entities := Sanitize(extracted.Entities)
	slog.Debug("pipeline complete",
		slog.Int("text_length", len(normalized)),
		slog.Int("chunks", extracted.ChunksProcessed),
		slog.Int("chunks_failed", extracted.ChunksFailed),
		slog.Int("entities", len(entities)),
	)

	return &Result{
		Entities:        entities,
		NormalizedText:  normalized,
		ChunksProcessed: extracted.ChunksProcessed,
	}, nil
}
