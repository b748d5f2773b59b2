package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/logging"
	"github.com/VrindaSoni2/hire.ai/internal/metrics"
)

// Extractor turns an uploaded document into grounding text.
type Extractor interface {
	ExtractDocument(doc Document) (ExtractedText, error)
}

// Composer renders the model prompt for a request.
type Composer interface {
	Compose(req GenerationRequest, doc ExtractedText) ComposedPrompt
}

// Generator runs the model call for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt ComposedPrompt) (RawModelReply, error)
}

// Normalizer validates a raw reply against the request.
type Normalizer interface {
	Normalize(reply RawModelReply, req GenerationRequest) (GenerationResult, error)
}

// ModelProbe is the slice of the LLM client used by health checks.
type ModelProbe interface {
	Chat(ctx context.Context, message, systemPrompt string) (string, error)
	Model() string
}

type ServiceOptions struct {
	Limits       Limits
	Provider     string
	ProbeTimeout time.Duration
}

// Service is the single entry point of the generation pipeline.
type Service struct {
	extractor  Extractor
	composer   Composer
	generator  Generator
	normalizer Normalizer
	probe      ModelProbe
	opts       ServiceOptions
	logger     zerolog.Logger
}

func NewService(extractor Extractor, composer Composer, generator Generator, normalizer Normalizer, probe ModelProbe, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	return &Service{
		extractor:  extractor,
		composer:   composer,
		generator:  generator,
		normalizer: normalizer,
		probe:      probe,
		opts:       opts,
		logger:     logger.With().Str("component", "interview").Logger(),
	}
}

// Limits returns the request bounds applied by GenerateQuestions.
func (s *Service) Limits() Limits {
	return s.opts.Limits
}

// GenerateQuestions validates req, extracts the optional document, composes
// the prompt, calls the model and normalizes the reply. Failures are one of
// ErrInvalidRequest, ErrGenerationUnavailable or ErrEmptyGeneration.
func (s *Service) GenerateQuestions(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	start := time.Now()
	logger := s.logger.With().Str("request_id", logging.RequestID(ctx)).Logger()

	req, warnings, err := s.opts.Limits.Normalize(req)
	if err != nil {
		s.finish(logger, "invalid_request", start, err)
		return GenerationResult{}, err
	}

	var doc ExtractedText
	if req.Document != nil {
		doc, err = s.extractor.ExtractDocument(*req.Document)
		switch {
		case errors.Is(err, ErrUnsupportedDocument):
			logger.Warn().Err(err).Str("filename", req.Document.Filename).Msg("document ignored")
			warnings = append(warnings, "document could not be read and was ignored; questions are based on role and skills only")
			doc = ExtractedText{}
		case err != nil:
			s.finish(logger, "unavailable", start, err)
			return GenerationResult{}, fmt.Errorf("extract document: %w", err)
		case doc.Truncated:
			warnings = append(warnings, "document was truncated; only its beginning was used")
		}
	}

	prompt := s.composer.Compose(req, doc)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		outcome := "unavailable"
		var unavailable *UnavailableError
		if errors.As(err, &unavailable) && unavailable.Cause == CauseCanceled {
			outcome = "canceled"
		}
		s.finish(logger, outcome, start, err)
		return GenerationResult{}, err
	}

	result, err := s.normalizer.Normalize(reply, req)
	if err != nil {
		s.finish(logger, "empty_generation", start, err)
		return GenerationResult{}, err
	}

	result.Warnings = append(warnings, result.Warnings...)
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	outcome := "ok"
	if result.Degraded {
		outcome = "degraded"
	}
	s.finish(logger.With().Int("questions", len(result.Questions)).Int("attempt", reply.Attempt).Logger(), outcome, start, nil)
	return result, nil
}

func (s *Service) finish(logger zerolog.Logger, outcome string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.GenerationRequests.WithLabelValues(outcome).Inc()
	metrics.GenerationDuration.Observe(elapsed.Seconds())

	var evt *zerolog.Event
	switch outcome {
	case "ok", "degraded":
		evt = logger.Info()
	case "invalid_request", "canceled":
		evt = logger.Debug()
	default:
		evt = logger.Error()
	}
	evt.Err(err).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("question generation finished")
}

// HealthReport describes pipeline reachability.
type HealthReport struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Probed   bool   `json:"probed"`
	Latency  string `json:"latency,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Healthy reports whether the pipeline can serve requests.
func (h HealthReport) Healthy() bool {
	return h.Status == "ok"
}

// Health reports the configured provider and model. With probe set it also
// performs a short Chat round-trip bounded by the probe timeout.
func (s *Service) Health(ctx context.Context, probe bool) HealthReport {
	report := HealthReport{Status: "ok", Provider: s.opts.Provider}
	if s.probe == nil {
		report.Status = "unavailable"
		report.Error = "no language model configured"
		return report
	}
	report.Model = s.probe.Model()
	if !probe {
		return report
	}

	report.Probed = true
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.probe.Chat(ctx, "Reply with the single word: ok", "You are a health check. Answer as briefly as possible.")
	report.Latency = time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		report.Status = "unavailable"
		report.Error = err.Error()
		s.logger.Warn().Err(err).Msg("llm health probe failed")
	}
	return report
}
