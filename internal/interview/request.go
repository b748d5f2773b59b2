package interview

import (
	"fmt"
	"strings"
)

// DefaultMaxQuestions bounds questionCount when no limit is configured.
const DefaultMaxQuestions = 20

// Limits bounds request parameters.
type Limits struct {
	MaxQuestions int
}

func (l Limits) maxQuestions() int {
	if l.MaxQuestions <= 0 {
		return DefaultMaxQuestions
	}
	return l.MaxQuestions
}

// Normalize validates req and returns a cleaned copy. Role and skills are
// trimmed, skills deduplicated, complexity clamped into [0,100] and
// questionCount clamped to the configured maximum. A non-positive
// questionCount is rejected. Warnings describe any clamping applied.
func (l Limits) Normalize(req GenerationRequest) (GenerationRequest, []string, error) {
	var warnings []string

	out := req
	out.Role = strings.TrimSpace(req.Role)
	if out.Role == "" {
		return GenerationRequest{}, nil, &ValidationError{Field: "role", Message: "role is required"}
	}

	out.Skills = NormalizeSkills(req.Skills)
	if len(out.Skills) == 0 {
		return GenerationRequest{}, nil, &ValidationError{Field: "skills", Message: "at least one non-empty skill is required"}
	}

	if req.QuestionCount <= 0 {
		return GenerationRequest{}, nil, &ValidationError{Field: "numberOfQuestions", Message: "numberOfQuestions must be a positive integer"}
	}
	if limit := l.maxQuestions(); req.QuestionCount > limit {
		out.QuestionCount = limit
		warnings = append(warnings, fmt.Sprintf("numberOfQuestions %d exceeds the maximum of %d; generating %d", req.QuestionCount, limit, limit))
	}

	switch {
	case req.Complexity < MinComplexity:
		out.Complexity = MinComplexity
	case req.Complexity > MaxComplexity:
		out.Complexity = MaxComplexity
	}

	if req.Document != nil && len(req.Document.Data) == 0 {
		out.Document = nil
	}

	return out, warnings, nil
}

// NormalizeSkills trims skills, drops empty entries and removes
// case-insensitive duplicates, keeping the first spelling and the input order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
