package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
)

func sampleRequest() interview.GenerationRequest {
	return interview.GenerationRequest{
		Role:          "Software Engineer",
		Skills:        []string{"JavaScript", "React", "Node.js"},
		Complexity:    75,
		QuestionCount: 3,
	}
}

func TestCompose_IsDeterministic(t *testing.T) {
	c := New(Options{})
	doc := interview.ExtractedText{Text: "Built a React dashboard used by 2k people."}

	first := c.Compose(sampleRequest(), doc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Compose(sampleRequest(), doc))
	}
}

func TestCompose_EncodesRequest(t *testing.T) {
	p := string(New(Options{}).Compose(sampleRequest(), interview.ExtractedText{}))

	assert.Contains(t, p, "Role: Software Engineer")
	assert.Contains(t, p, "Skills: JavaScript, React, Node.js")
	assert.Contains(t, p, "advanced/expert")
	assert.Contains(t, p, "complexity 75/100")
	assert.Contains(t, p, "Generate exactly 3 questions.")
	assert.Contains(t, p, `{"questions":[`)
	assert.NotContains(t, p, "Candidate document")
}

func TestCompose_DifficultyDirectiveFollowsBanding(t *testing.T) {
	c := New(Options{})
	cases := map[int]string{0: "easy/foundational", 33: "easy/foundational", 34: "intermediate", 66: "intermediate", 67: "advanced/expert"}
	for complexity, directive := range cases {
		req := sampleRequest()
		req.Complexity = complexity
		assert.Contains(t, string(c.Compose(req, interview.ExtractedText{})), "Pitch every question at the "+directive+" level.")
	}
}

func TestCompose_BoundedExcerpt(t *testing.T) {
	c := New(Options{ExcerptChars: 10})
	doc := interview.ExtractedText{Text: "0123456789ABCDEFGHIJ"}

	p := string(c.Compose(sampleRequest(), doc))

	assert.Contains(t, p, "---BEGIN DOCUMENT---\n0123456789\n---END DOCUMENT---")
	assert.NotContains(t, p, "ABCDEFGHIJ")
	assert.Contains(t, p, "truncated")
}

func TestCompose_TruncatedDocumentHint(t *testing.T) {
	c := New(Options{})
	p := string(c.Compose(sampleRequest(), interview.ExtractedText{Text: "short resume", Truncated: true}))

	assert.Contains(t, p, "the document was truncated")
	assert.Contains(t, p, "short resume")
}

func TestCompose_FullDocumentHasNoHint(t *testing.T) {
	p := string(New(Options{}).Compose(sampleRequest(), interview.ExtractedText{Text: "short resume"}))
	assert.NotContains(t, p, "truncated")
}

func TestCompose_ExcerptCutsOnRuneBoundary(t *testing.T) {
	excerpt, cut := excerptOf(strings.Repeat("é", 5), 3)
	assert.Equal(t, "ééé", excerpt)
	assert.True(t, cut)
}
