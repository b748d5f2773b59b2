package document

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
)

func TestExtract_NoDocument(t *testing.T) {
	out, err := New(Options{}).Extract(nil, "")
	require.NoError(t, err)
	assert.Equal(t, interview.ExtractedText{}, out)
}

func TestExtract_PlainTextBudgetRoundTrip(t *testing.T) {
	const budget = 64
	ex := New(Options{CharBudget: budget})

	exact := strings.Repeat("a", budget)
	out, err := ex.Extract([]byte(exact), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, exact, out.Text)
	assert.False(t, out.Truncated)

	over := exact + "b"
	out, err = ex.Extract([]byte(over), MediaTypeText)
	require.NoError(t, err)
	assert.True(t, out.Truncated)
	assert.Equal(t, exact, out.Text)
	assert.Less(t, len(out.Text), len(over))
}

func TestExtract_TruncatesOnRuneBoundary(t *testing.T) {
	ex := New(Options{CharBudget: 3})
	out, err := ex.Extract([]byte("héllo"), MediaTypeText)
	require.NoError(t, err)
	assert.Equal(t, "hél", out.Text)
	assert.True(t, out.Truncated)
}

func TestExtract_PlainTextStripsBOM(t *testing.T) {
	out, err := New(Options{}).Extract([]byte("\ufeffResume"), MediaTypeText)
	require.NoError(t, err)
	assert.Equal(t, "Resume", out.Text)
}

func TestExtract_Markdown(t *testing.T) {
	src := "# Jane Doe\n\nSenior **Go** engineer with [Kubernetes](https://k8s.io) experience.\n\n- Built `gRPC` services\n- Led Postgres migrations\n\n```\nfunc main() {}\n```\n"
	out, err := New(Options{}).Extract([]byte(src), "text/markdown")
	require.NoError(t, err)

	assert.Contains(t, out.Text, "Jane Doe")
	assert.Contains(t, out.Text, "Senior Go engineer with Kubernetes experience.")
	assert.Contains(t, out.Text, "Built gRPC services")
	assert.Contains(t, out.Text, "func main() {}")
	assert.NotContains(t, out.Text, "**")
	assert.NotContains(t, out.Text, "https://k8s.io")
}

func TestExtract_HTML(t *testing.T) {
	src := `<html><body><h1>Job: Platform Engineer</h1><p>We need <b>Terraform</b> and AWS.</p><script>alert(1)</script></body></html>`
	out, err := New(Options{}).Extract([]byte(src), "text/html; charset=utf-8")
	require.NoError(t, err)

	assert.Contains(t, out.Text, "Job: Platform Engineer")
	assert.Contains(t, out.Text, "We need Terraform and AWS.")
	assert.NotContains(t, out.Text, "<b>")
	assert.NotContains(t, out.Text, "alert(1)")
}

// onePagePDF assembles a single page document showing line in Helvetica,
// with a cross-reference table the reader can follow.
func onePagePDF(line string) []byte {
	content := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", line)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_PDF(t *testing.T) {
	data := onePagePDF("Senior Go engineer resume")
	assert.Equal(t, MediaTypePDF, DetectMediaType("upload", "", data))

	out, err := New(Options{}).Extract(data, MediaTypePDF)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer resume", out.Text)
	assert.False(t, out.Truncated)
}

func TestExtract_PDFTruncated(t *testing.T) {
	out, err := New(Options{CharBudget: 6}).Extract(onePagePDF("Senior Go engineer resume"), MediaTypePDF)
	require.NoError(t, err)
	assert.Equal(t, "Senior", out.Text)
	assert.True(t, out.Truncated)
}

func TestExtract_Unsupported(t *testing.T) {
	ex := New(Options{})

	cases := []struct {
		name      string
		data      []byte
		mediaType string
	}{
		{"image", []byte{0x89, 'P', 'N', 'G'}, "image/png"},
		{"broken pdf", []byte("definitely not a pdf"), MediaTypePDF},
		{"invalid utf8", []byte{0xff, 0xfe, 0xfd}, MediaTypeText},
		{"blank text", []byte("   \n\t "), MediaTypeText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ex.Extract(tc.data, tc.mediaType)
			assert.ErrorIs(t, err, interview.ErrUnsupportedDocument)
		})
	}
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, MediaTypePDF, DetectMediaType("cv.bin", "application/pdf", nil))
	assert.Equal(t, MediaTypePDF, DetectMediaType("cv.bin", "application/x-pdf", nil))
	assert.Equal(t, MediaTypeText, DetectMediaType("cv.txt", "application/octet-stream", nil))
	assert.Equal(t, MediaTypeMarkdown, DetectMediaType("README.MD", "", nil))
	assert.Equal(t, MediaTypePDF, DetectMediaType("upload", "", []byte("%PDF-1.7\n")))
	assert.Equal(t, MediaTypeText, DetectMediaType("upload", "", []byte("plain words")))
	assert.Equal(t, "", DetectMediaType("upload", "", nil))
}

func TestExtractDocument_DetectsByExtension(t *testing.T) {
	out, err := New(Options{}).ExtractDocument(interview.Document{
		Data:      []byte("## Skills\n\n- Go"),
		MediaType: "application/octet-stream",
		Filename:  "cv.md",
	})
	require.NoError(t, err)
	assert.Equal(t, "Skills\nGo", out.Text)
}
