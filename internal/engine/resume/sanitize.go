package resume

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anatolykoptev/go_resume/internal/engine"
)

const (
	minEntityLen = 2   // inclusive floor; two-letter state abbreviations survive
	maxEntityLen = 100 // runes
	// defaultConfidence is attached when the service omits a score.
	defaultConfidence = 0.8
)

// SanitizedEntity is the public output unit: a deduplicated, filtered entity.
type SanitizedEntity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Sanitize deduplicates, filters, and normalizes entities into the output
// contract. Dedup is first-occurrence-wins on (lowercased trimmed text, label);
// later duplicates are discarded even with higher confidence, preserving
// original discovery order. Deterministic and never fails — it only filters.
func Sanitize(entities []Entity) []SanitizedEntity {
	seen := make(map[string]struct{}, len(entities))
	out := make([]SanitizedEntity, 0, len(entities))
	dropped := 0

	for _, e := range entities {
		trimmed := strings.TrimSpace(e.Text)
		if trimmed == "" {
			dropped++
			continue
		}

		key := strings.ToLower(trimmed) + "_" + e.Label
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}

		if n := utf8.RuneCountInString(trimmed); n < minEntityLen || n > maxEntityLen {
			dropped++
			continue
		}
		if allDigits(trimmed) || allPunct(trimmed) {
			// Isolated numbers and stray symbols are not useful resume entities.
			dropped++
			continue
		}

		confidence := defaultConfidence
		if e.Confidence != nil {
			confidence = *e.Confidence
		}
		out = append(out, SanitizedEntity{
			Type:       e.Label,
			Value:      trimmed,
			Confidence: confidence,
		})
	}

	engine.Metrics.EntitiesDropped.Add(int64(dropped))
	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func allPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
