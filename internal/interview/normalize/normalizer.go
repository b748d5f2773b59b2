// Package normalize turns raw model replies into validated question sets.
package normalize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/metrics"
)

// Normalizer is stateless and safe for concurrent use.
type Normalizer struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Normalizer {
	return &Normalizer{logger: logger.With().Str("component", "normalize").Logger()}
}

// Normalize parses reply into at most req.QuestionCount questions labelled
// with the request difficulty band. A shortfall yields a degraded result;
// zero usable questions fail with interview.ErrEmptyGeneration.
func (n *Normalizer) Normalize(reply interview.RawModelReply, req interview.GenerationRequest) (interview.GenerationResult, error) {
	parsed := Parse(reply.Text)
	metrics.ParseModes.WithLabelValues(string(parsed.Mode)).Inc()

	items := dedupe(parsed.Items)
	if len(items) == 0 {
		n.logger.Warn().Str("mode", string(parsed.Mode)).Int("reply_bytes", len(reply.Text)).Msg("no usable questions in model reply")
		return interview.GenerationResult{}, fmt.Errorf("%w: model reply contained no usable questions", interview.ErrEmptyGeneration)
	}

	if req.QuestionCount > 0 && len(items) > req.QuestionCount {
		items = items[:req.QuestionCount]
	}

	band := req.Band()
	result := interview.GenerationResult{
		Questions: make([]interview.Question, 0, len(items)),
		Warnings:  []string{},
	}
	for i, it := range items {
		result.Questions = append(result.Questions, interview.Question{
			Index:              i,
			Text:               it.Text,
			ExpectedDifficulty: band,
			SkillTag:           matchSkill(it, req.Skills),
		})
	}

	if got := len(result.Questions); got < req.QuestionCount {
		result.Degraded = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("model returned %d of %d requested questions", got, req.QuestionCount))
	}

	n.logger.Debug().
		Str("mode", string(parsed.Mode)).
		Int("questions", len(result.Questions)).
		Bool("degraded", result.Degraded).
		Msg("model reply normalized")
	return result, nil
}

func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, it := range items {
		key := strings.ToLower(it.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// matchSkill returns the requested skill an item targets, spelled as requested.
func matchSkill(it Item, skills []string) string {
	if tag := strings.TrimSpace(it.Skill); tag != "" {
		for _, s := range skills {
			if strings.EqualFold(s, tag) {
				return s
			}
		}
	}
	lower := strings.ToLower(it.Text)
	for _, s := range skills {
		if mentions(lower, strings.ToLower(s)) {
			return s
		}
	}
	return ""
}

// mentions reports whether skill appears in text as a whole word.
func mentions(text, skill string) bool {
	if skill == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], skill)
		if i == -1 {
			return false
		}
		start := offset + i
		end := start + len(skill)
		if !wordRuneBefore(text, start) && !wordRuneAt(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
