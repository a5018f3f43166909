package resume

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkSize bounds a single NER service request. Long inputs
// degrade model accuracy and may exceed service limits, so splitting is
// mandatory above this size.
const DefaultMaxChunkSize = 2000

// chunkSeparator is the separator assumed between chunks when offsets are
// accumulated. SourceOffset bookkeeping assumes every chunk boundary consumed
// exactly len(chunkSeparator) characters, so offsets can drift by a few
// characters from the literal source index on documents with non-uniform
// separators. Consumers must honor this approximation.
const chunkSeparator = ". "

// Chunk is a bounded substring of the normalized document, processed
// independently by the NER service.
type Chunk struct {
	Text         string
	SourceOffset int // approximate 0-based index of Text within the normalized document
}

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// SplitChunks splits normalized text into chunks of at most maxChunkSize
// characters on sentence boundaries. Sentences are greedily packed; a single
// sentence longer than maxChunkSize is emitted alone, hard-truncated (data
// loss accepted by policy). Chunks are ordered with strictly increasing
// offsets.
func SplitChunks(text string, maxChunkSize int) []Chunk {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if len(text) <= maxChunkSize {
		return []Chunk{{Text: text, SourceOffset: 0}}
	}

	var chunks []Chunk
	offset := 0
	emit := func(s string) {
		chunks = append(chunks, Chunk{Text: s, SourceOffset: offset})
		offset += len(s) + len(chunkSeparator)
	}

	current := ""
	for _, sentence := range splitSentences(text) {
		if len(sentence) > maxChunkSize {
			if current != "" {
				emit(current)
				current = ""
			}
			emit(sentence[:maxChunkSize])
			continue
		}
		switch {
		case current == "":
			current = sentence
		case len(current)+len(chunkSeparator)+len(sentence) > maxChunkSize:
			emit(current)
			current = sentence
		default:
			current += chunkSeparator + sentence
		}
	}
	if current != "" {
		chunks = append(chunks, Chunk{Text: current, SourceOffset: offset})
	}
	return chunks
}

// splitSentences cuts text on sentence-terminator-plus-whitespace boundaries.
// The terminator and trailing whitespace are consumed; re-joining with
// chunkSeparator reconstructs the text up to separator drift.
func splitSentences(text string) []string {
	var sentences []string
	prev := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[prev:loc[0]]); s != "" {
			sentences = append(sentences, s)
		}
		prev = loc[1]
	}
	if s := strings.TrimSpace(text[prev:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
