package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_resume/internal/engine"
	"github.com/ledongthuc/pdf"
)

// Supported document MIME types.
const (
	MIMEPDF        = "application/pdf"
	MIMEDocx       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText       = "text/plain"
	mimeWordLegacy = "application/msword"
)

// ErrUnsupportedFormat means the document's MIME type has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported document format")

var xmlTagRe = regexp.MustCompile(`<[^>]+>`)

// ExtractText converts a resume document on disk into UTF-8 text.
// Legacy binary .doc is rejected outright; converting it requires Word
// tooling this service does not carry.
func ExtractText(path, mimeType string) (string, error) {
	engine.Metrics.FileExtracts.Add(1)

	text, err := extractText(path, mimeType)
	if err != nil {
		engine.Metrics.FileExtractErrors.Add(1)
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		engine.Metrics.FileExtractErrors.Add(1)
		return "", fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}
	return text, nil
}

func extractText(path, mimeType string) (string, error) {
	switch mimeType {
	case MIMEPDF:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return extractPDF(data)
	case MIMEDocx:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return extractDocx(data)
	case MIMEText:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	case mimeWordLegacy:
		return "", fmt.Errorf("legacy .doc is not supported, convert to .docx or PDF: %w", ErrUnsupportedFormat)
	default:
		return "", fmt.Errorf("mime type %q: %w", mimeType, ErrUnsupportedFormat)
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return buf.String(), nil
}

// extractDocx pulls word/document.xml out of the OOXML archive and strips
// markup, turning paragraph ends into newlines.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx open: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("docx document.xml: %w", err)
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("docx document.xml: %w", err)
		}
		break
	}
	if len(docXML) == 0 {
		return "", errors.New("docx: no document.xml in archive")
	}

	s := string(docXML)
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")
	s = xmlTagRe.ReplaceAllString(s, " ")
	return s, nil
}
