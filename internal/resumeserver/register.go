// Package resumeserver registers the resume extraction MCP tools:
// resume_extract, resume_extract_file, resume_text_extract.
package resumeserver

import (
	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all extraction tools on the given MCP server.
// Call after engine.Init.
func RegisterTools(server *mcp.Server) {
	pipeline := newPipeline()
	registerResumeExtract(server, pipeline)
	registerResumeExtractFile(server, pipeline)
	registerResumeTextExtract(server)
}

// newPipeline builds the pipeline from the injected engine configuration.
func newPipeline() *resume.Pipeline {
	c := engine.Cfg
	ner := resume.NewNERClient(resume.NERConfig{
		ServiceURL:   c.NERServiceURL,
		Timeout:      c.NERTimeout,
		RateLimit:    c.NERRateLimit,
		MaxRetries:   c.NERMaxRetries,
		MaxChunkSize: c.MaxChunkSize,
		MaxChunks:    c.MaxChunks,
		HTTPClient:   c.HTTPClient,
	})
	return resume.NewPipeline(ner)
}
