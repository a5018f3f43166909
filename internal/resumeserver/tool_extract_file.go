package resumeserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/anatolykoptev/go_resume/internal/engine/resume"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResumeExtractFile(server *mcp.Server, pipeline *resume.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_extract_file",
		Description: "Extract named entities from an uploaded resume document. Supported MIME types: application/pdf, application/vnd.openxmlformats-officedocument.wordprocessingml.document, text/plain. Legacy .doc is rejected. Returns the same payload as resume_extract.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ResumeExtractFileInput) (*mcp.CallToolResult, *resume.ExtractOutput, error) {
		if input.Path == "" {
			return nil, nil, errors.New("path is required")
		}
		if input.MimeType == "" {
			return nil, nil, errors.New("mime_type is required")
		}

		text, err := resume.ExtractText(input.Path, input.MimeType)
		if err != nil {
			return nil, nil, err
		}

		result, err := pipeline.Process(ctx, text)
		if err != nil {
			return nil, nil, err
		}
		return nil, result.Output(), nil
	})
}

func registerResumeTextExtract(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resume_text_extract",
		Description: "Convert a resume document (PDF, DOCX, or plain text) to raw UTF-8 text without running entity extraction. Useful for inspecting what the extractor sees.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input engine.ResumeTextExtractInput) (*mcp.CallToolResult, *engine.TextExtractOutput, error) {
		if input.Path == "" {
			return nil, nil, errors.New("path is required")
		}
		if input.MimeType == "" {
			return nil, nil, errors.New("mime_type is required")
		}

		text, err := resume.ExtractText(input.Path, input.MimeType)
		if err != nil {
			return nil, nil, err
		}
		return nil, &engine.TextExtractOutput{Text: text, Length: len(text)}, nil
	})
}
