package engine

// --- MCP tool input types ---

type ResumeExtractInput struct {
	Text string `json:"text" jsonschema:"Resume plain text to run entity extraction on"`
}

type ResumeExtractFileInput struct {
	Path     string `json:"path" jsonschema:"Filesystem path of the uploaded resume document"`
	MimeType string `json:"mime_type" jsonschema:"Document MIME type: application/pdf, application/vnd.openxmlformats-officedocument.wordprocessingml.document, or text/plain"`
}

type ResumeTextExtractInput struct {
	Path     string `json:"path" jsonschema:"Filesystem path of the document to convert to plain text"`
	MimeType string `json:"mime_type" jsonschema:"Document MIME type"`
}

// --- MCP tool output types ---

type TextExtractOutput struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}
