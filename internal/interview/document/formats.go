package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
)

func extractPDF(data []byte) (out string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: malformed pdf: %v", interview.ErrUnsupportedDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", interview.ErrUnsupportedDocument, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read pdf text: %v", interview.ErrUnsupportedDocument, err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: read pdf text: %v", interview.ErrUnsupportedDocument, err)
	}
	return collapseWhitespace(string(raw)), nil
}

func (e *Extractor) extractHTML(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: html is not valid UTF-8", interview.ErrUnsupportedDocument)
	}
	md, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("%w: convert html: %v", interview.ErrUnsupportedDocument, err)
	}
	return e.extractMarkdown([]byte(md))
}

// extractMarkdown renders markdown to plain text by walking the parsed AST,
// keeping text and code content and dropping markup and raw HTML.
func (e *Extractor) extractMarkdown(src []byte) (string, error) {
	if !utf8.Valid(src) {
		return "", fmt.Errorf("%w: markdown is not valid UTF-8", interview.ErrUnsupportedDocument)
	}

	doc := e.md.Parser().Parse(text.NewReader(src))
	var sb strings.Builder
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				newline()
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
			newline()
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: walk markdown: %v", interview.ErrUnsupportedDocument, err)
	}
	return collapseWhitespace(sb.String()), nil
}
