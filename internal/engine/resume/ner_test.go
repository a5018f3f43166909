package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newNERServer returns a fake NER service that answers with one entity per
// request, spanning the first word of the chunk in chunk-local coordinates.
func newNERServer(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		var req nerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request payload: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		end := strings.IndexByte(req.Text, ' ')
		if end < 0 {
			end = len(req.Text)
		}
		json.NewEncoder(w).Encode(nerResponse{Entities: []Entity{
			{Text: req.Text[:end], Label: "ORG", Start: 0, End: end},
		}})
	}))
}

func testClient(url string, maxChunkSize int) *NERClient {
	return NewNERClient(NERConfig{
		ServiceURL:   url,
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		MaxChunkSize: maxChunkSize,
	})
}

func TestExtractEntitiesOffsetRemap(t *testing.T) {
	srv := newNERServer(t, nil)
	defer srv.Close()

	// 50-char sentences with max 60 force one sentence per chunk,
	// so chunk offsets are 0, 52, 104.
	text := strings.Join(buildSentences(3), ". ")
	res, err := testClient(srv.URL, 60).ExtractEntities(context.Background(), text)
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if res.ChunksProcessed != 3 || res.ChunksFailed != 0 {
		t.Fatalf("processed/failed = %d/%d, want 3/0", res.ChunksProcessed, res.ChunksFailed)
	}
	if len(res.Entities) != 3 {
		t.Fatalf("got %d entities, want 3", len(res.Entities))
	}
	for i, e := range res.Entities {
		wantStart := i * 52
		if e.Start != wantStart || e.End != wantStart+len(e.Text) {
			t.Errorf("entity %d span [%d,%d), want start %d", i, e.Start, e.End, wantStart)
		}
		if text[e.Start:e.End] != e.Text {
			t.Errorf("entity %d span does not cover %q in source", i, e.Text)
		}
	}
}

func TestExtractEntitiesSkipsFailedChunk(t *testing.T) {
	var n atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 2 {
			// 400 is not retried, so the chunk fails on the first attempt.
			http.Error(w, "model error", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(nerResponse{Entities: []Entity{
			{Text: "Acme", Label: "ORG", Start: 0, End: 4},
		}})
	}))
	defer srv.Close()

	text := strings.Join(buildSentences(3), ". ")
	res, err := testClient(srv.URL, 60).ExtractEntities(context.Background(), text)
	if err != nil {
		t.Fatalf("per-chunk failure must not fail extraction: %v", err)
	}
	if res.ChunksProcessed != 3 {
		t.Errorf("ChunksProcessed = %d, want 3 (failed chunks still count)", res.ChunksProcessed)
	}
	if res.ChunksFailed != 1 {
		t.Errorf("ChunksFailed = %d, want 1", res.ChunksFailed)
	}
	if len(res.Entities) != 2 {
		t.Errorf("got %d entities, want 2 (middle chunk lost)", len(res.Entities))
	}
}

func TestExtractEntitiesFirstChunkConnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening: dial fails

	res, err := testClient(url, 60).ExtractEntities(context.Background(), "Jane Smith worked at Acme")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil on systemic failure", res)
	}
}

func TestExtractEntitiesLaterChunkConnFailureIsSkipped(t *testing.T) {
	var n atomic.Int64
	inner := newNERServer(t, nil)
	defer inner.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) >= 2 {
			// Hijack and drop the connection to simulate mid-run death.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("hijacking unsupported")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			conn.Close()
			return
		}
		r2, _ := http.NewRequest(r.Method, inner.URL+"/extract", r.Body)
		resp, err := http.DefaultClient.Do(r2)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		var body nerResponse
		json.NewDecoder(resp.Body).Decode(&body)
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	text := strings.Join(buildSentences(3), ". ")
	res, err := testClient(srv.URL, 60).ExtractEntities(context.Background(), text)
	if err != nil {
		t.Fatalf("dead connection after the first chunk must not abort: %v", err)
	}
	if res.ChunksFailed != 2 {
		t.Errorf("ChunksFailed = %d, want 2", res.ChunksFailed)
	}
	if len(res.Entities) != 1 {
		t.Errorf("got %d entities, want 1 (first chunk only)", len(res.Entities))
	}
}

func TestExtractEntitiesTimeoutIsNotSystemic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewNERClient(NERConfig{
		ServiceURL:   srv.URL,
		Timeout:      30 * time.Millisecond,
		MaxRetries:   0,
		MaxChunkSize: 60,
	})
	res, err := c.ExtractEntities(context.Background(), "Jane Smith worked at Acme")
	if err != nil {
		t.Fatalf("timeout on first chunk must degrade, not abort: %v", err)
	}
	if res.ChunksFailed != 1 || len(res.Entities) != 0 {
		t.Errorf("failed/entities = %d/%d, want 1/0", res.ChunksFailed, len(res.Entities))
	}
}

func TestExtractEntitiesMalformedResponseSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer srv.Close()

	res, err := testClient(srv.URL, 60).ExtractEntities(context.Background(), "Jane Smith worked at Acme")
	if err != nil {
		t.Fatalf("malformed response must be a per-chunk skip: %v", err)
	}
	if res.ChunksProcessed != 1 || res.ChunksFailed != 1 {
		t.Errorf("processed/failed = %d/%d, want 1/1", res.ChunksProcessed, res.ChunksFailed)
	}
}

func TestExtractEntitiesChunkCap(t *testing.T) {
	var requests atomic.Int64
	srv := newNERServer(t, &requests)
	defer srv.Close()

	c := NewNERClient(NERConfig{
		ServiceURL:   srv.URL,
		Timeout:      5 * time.Second,
		MaxChunkSize: 60,
		MaxChunks:    2,
	})
	text := strings.Join(buildSentences(5), ". ")
	res, err := c.ExtractEntities(context.Background(), text)
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("service saw %d requests, want 2", got)
	}
	if res.ChunksProcessed != 2 {
		t.Errorf("ChunksProcessed = %d, want 2", res.ChunksProcessed)
	}
}

func TestExtractEntitiesContextCanceled(t *testing.T) {
	srv := newNERServer(t, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(srv.URL, 60).ExtractEntities(ctx, "Jane Smith worked at Acme")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
