package resumeserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/anatolykoptev/go_resume/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResumeExtract(server *mcp.Server, pipeline *resume.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_extract",
		Description: "Extract named entities (contact info, skills, titles, education) from resume plain text. Returns a deduplicated list of {type, value, confidence} pairs plus pipeline metadata (total entities, chunks processed, text length).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ResumeExtractInput) (*mcp.CallToolResult, *resume.ExtractOutput, error) {
		if input.Text == "" {
			return nil, nil, errors.New("text is required")
		}

		cacheKey := engine.CacheKey("resume_extract", input.Text)
		if out, ok := toolutil.CacheLoadJSON[*resume.ExtractOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		result, err := pipeline.Process(ctx, input.Text)
		if err != nil {
			return nil, nil, err
		}

		out := result.Output()
		toolutil.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}
