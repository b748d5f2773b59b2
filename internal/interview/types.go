// Package interview turns a role, a skill list and an optional candidate
// document into a validated set of interview questions produced by an LLM.
package interview

import "time"

// Difficulty is the label attached to every generated question.
type Difficulty string

const (
	DifficultyEasy         Difficulty = "easy"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

const (
	MinComplexity = 0
	MaxComplexity = 100
)

// BandFor maps a complexity score onto a difficulty band. Boundary values
// belong to the lower band: 33 is easy, 66 is intermediate.
func BandFor(complexity int) Difficulty {
	switch {
	case complexity <= 33:
		return DifficultyEasy
	case complexity <= 66:
		return DifficultyIntermediate
	default:
		return DifficultyAdvanced
	}
}

// Directive is the wording used in prompts for the band.
func (d Difficulty) Directive() string {
	switch d {
	case DifficultyEasy:
		return "easy/foundational"
	case DifficultyIntermediate:
		return "intermediate"
	default:
		return "advanced/expert"
	}
}

// Document is an uploaded resume or job description.
type Document struct {
	Data      []byte
	MediaType string
	Filename  string
}

// GenerationRequest is the pipeline input.
type GenerationRequest struct {
	Role          string
	Skills        []string
	Complexity    int
	QuestionCount int
	Document      *Document
}

// Band returns the difficulty band for the request complexity.
func (r GenerationRequest) Band() Difficulty {
	return BandFor(r.Complexity)
}

// ExtractedText is the plain-text grounding context of a document.
type ExtractedText struct {
	Text      string
	Truncated bool
}

// ComposedPrompt is the single prompt sent to the model for a request.
type ComposedPrompt string

// RawModelReply is the unparsed model output plus call metadata.
type RawModelReply struct {
	Text    string
	Attempt int
	Latency time.Duration
	Model   string
}

// Question is one generated interview question. Index order is presentation order.
type Question struct {
	Index              int        `json:"index"`
	Text               string     `json:"text"`
	ExpectedDifficulty Difficulty `json:"expectedDifficulty"`
	SkillTag           string     `json:"skillTag,omitempty"`
}

// GenerationResult is the pipeline output.
type GenerationResult struct {
	Questions []Question `json:"questions"`
	Degraded  bool       `json:"degraded"`
	Warnings  []string   `json:"warnings"`
}
