// Package document converts uploaded resumes and job descriptions into plain
// text used as grounding context for question generation.
package document

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/metrics"
)

// DefaultCharBudget is the number of characters kept from a document.
const DefaultCharBudget = 20000

const (
	MediaTypePDF      = "application/pdf"
	MediaTypeText     = "text/plain"
	MediaTypeMarkdown = "text/markdown"
	MediaTypeHTML     = "text/html"
)

var aliases = map[string]string{
	"application/x-pdf":     MediaTypePDF,
	"text/x-markdown":       MediaTypeMarkdown,
	"application/xhtml+xml": MediaTypeHTML,
}

var extensions = map[string]string{
	".pdf":      MediaTypePDF,
	".txt":      MediaTypeText,
	".text":     MediaTypeText,
	".md":       MediaTypeMarkdown,
	".markdown": MediaTypeMarkdown,
	".html":     MediaTypeHTML,
	".htm":      MediaTypeHTML,
}

// Options configures an Extractor.
type Options struct {
	CharBudget int
}

// Extractor turns document bytes into ExtractedText. It holds no per-request
// state and is safe for concurrent use.
type Extractor struct {
	budget int
	md     goldmark.Markdown
}

func New(opts Options) *Extractor {
	budget := opts.CharBudget
	if budget <= 0 {
		budget = DefaultCharBudget
	}
	return &Extractor{budget: budget, md: goldmark.New()}
}

// Budget returns the configured character budget.
func (e *Extractor) Budget() int {
	return e.budget
}

// Extract converts data of the given media type into plain text, cut to the
// character budget. Empty data yields empty text. Unsupported media types and
// payloads that fail to parse return an error wrapping
// interview.ErrUnsupportedDocument.
func (e *Extractor) Extract(data []byte, mediaType string) (interview.ExtractedText, error) {
	if len(data) == 0 {
		return interview.ExtractedText{}, nil
	}

	mt := canonical(mediaType)
	var (
		text string
		err  error
	)
	switch mt {
	case MediaTypePDF:
		text, err = extractPDF(data)
	case MediaTypeText:
		text, err = extractPlain(data)
	case MediaTypeMarkdown:
		text, err = e.extractMarkdown(data)
	case MediaTypeHTML:
		text, err = e.extractHTML(data)
	default:
		metrics.DocumentExtractions.WithLabelValues("other", "unsupported").Inc()
		return interview.ExtractedText{}, fmt.Errorf("%w: media type %q is not accepted", interview.ErrUnsupportedDocument, mediaType)
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: %s document contains no extractable text", interview.ErrUnsupportedDocument, mt)
	}
	if err != nil {
		metrics.DocumentExtractions.WithLabelValues(mt, "failed").Inc()
		return interview.ExtractedText{}, err
	}

	out := truncate(text, e.budget)
	result := "ok"
	if out.Truncated {
		result = "truncated"
	}
	metrics.DocumentExtractions.WithLabelValues(mt, result).Inc()
	return out, nil
}

// ExtractDocument resolves the media type of doc and extracts its text.
func (e *Extractor) ExtractDocument(doc interview.Document) (interview.ExtractedText, error) {
	return e.Extract(doc.Data, DetectMediaType(doc.Filename, doc.MediaType, doc.Data))
}

// DetectMediaType resolves the media type of an upload. The declared type
// wins unless it is missing or generic, then the file extension, then
// content sniffing.
func DetectMediaType(filename, declared string, data []byte) string {
	if mt := canonical(declared); mt != "" && mt != "application/octet-stream" {
		return mt
	}
	if mt, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}
	if len(data) > 0 {
		return canonical(http.DetectContentType(data))
	}
	return canonical(declared)
}

func canonical(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt, _, _ = strings.Cut(mediaType, ";")
	}
	mt = strings.ToLower(strings.TrimSpace(mt))
	if alias, ok := aliases[mt]; ok {
		return alias
	}
	return mt
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", interview.ErrUnsupportedDocument)
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// truncate keeps the first budget characters of s.
func truncate(s string, budget int) interview.ExtractedText {
	if utf8.RuneCountInString(s) <= budget {
		return interview.ExtractedText{Text: s}
	}
	n := 0
	for i := range s {
		if n == budget {
			return interview.ExtractedText{Text: s[:i], Truncated: true}
		}
		n++
	}
	return interview.ExtractedText{Text: s}
}

// collapseWhitespace squeezes runs of blanks inside lines and drops blank lines.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return strings.Join(out, "\n")
}
