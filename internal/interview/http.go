package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/logging"
	httperrors "github.com/VrindaSoni2/hire.ai/pkg/http/errors"
	ws "github.com/VrindaSoni2/hire.ai/pkg/http/ws"
)

const (
	DefaultQuestionCount = 5
	DefaultComplexity    = 50
	DefaultMaxUpload     = 10 << 20

	retryAfterSeconds = 5
)

// HandlerOptions configures request defaults and upload limits.
type HandlerOptions struct {
	DefaultQuestionCount int
	// DefaultComplexity applies when a request omits complexity. Nil means 50.
	DefaultComplexity *int
	MaxUploadBytes    int64
}

// HTTPHandler exposes the generation pipeline over HTTP and websocket.
type HTTPHandler struct {
	svc        *Service
	hub        *ws.Hub
	opts       HandlerOptions
	complexity int
	logger     zerolog.Logger
}

// NewHTTPHandler builds the handler. Websocket sessions are tracked in hub.
func NewHTTPHandler(svc *Service, hub *ws.Hub, opts HandlerOptions, logger zerolog.Logger) *HTTPHandler {
	if opts.DefaultQuestionCount <= 0 {
		opts.DefaultQuestionCount = DefaultQuestionCount
	}
	complexity := DefaultComplexity
	if c := opts.DefaultComplexity; c != nil && *c >= MinComplexity && *c <= MaxComplexity {
		complexity = *c
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUpload
	}
	if hub == nil {
		hub = ws.NewHub(logger)
	}
	return &HTTPHandler{
		svc:        svc,
		hub:        hub,
		opts:       opts,
		complexity: complexity,
		logger:     logger.With().Str("component", "interview_http").Logger(),
	}
}

// RegisterRoutes mounts the generation endpoints. protect wraps routes that
// require a bearer token when authentication is enabled.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/interview-questions/health", h.HandleHealth)
	mux.Handle("POST /api/interview-questions/generate", protect(http.HandlerFunc(h.HandleGenerate)))
	mux.Handle("GET /ws/interview-questions", protect(http.HandlerFunc(h.HandleWebSocket)))
}

// HandleHealth reports pipeline reachability.
// Route: GET /api/interview-questions/health?probe=true
func (h *HTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	probe, _ := strconv.ParseBool(r.URL.Query().Get("probe"))
	report := h.svc.Health(r.Context(), probe)

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// HandleGenerate runs the pipeline for a multipart or JSON request.
// Route: POST /api/interview-questions/generate
func (h *HTTPHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	req, err := h.decodeRequest(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.svc.GenerateQuestions(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": result})
}

// requestBody is the JSON form of a generation request. Field names match
// the multipart form fields.
type requestBody struct {
	Role               string    `json:"role"`
	Skills             skillList `json:"skills"`
	QuestionComplexity *int      `json:"questionComplexity"`
	NumberOfQuestions  *int      `json:"numberOfQuestions"`
}

// skillList accepts a JSON array of strings or a comma-separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("skills must be an array of strings")
	}
	*s = parseSkills(raw)
	return nil
}

func (h *HTTPHandler) decodeRequest(r *http.Request) (GenerationRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return h.decodeJSON(r)
	case "multipart/form-data", "application/x-www-form-urlencoded":
		return h.decodeForm(r)
	default:
		return GenerationRequest{}, &ValidationError{Field: "body", Message: "expected multipart/form-data or application/json"}
	}
}

func (h *HTTPHandler) decodeJSON(r *http.Request) (GenerationRequest, error) {
	var body requestBody
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		if tooLarge := h.tooLarge(err); tooLarge != nil {
			return GenerationRequest{}, tooLarge
		}
		return GenerationRequest{}, &ValidationError{Field: "body", Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}

	req := GenerationRequest{
		Role:          body.Role,
		Skills:        body.Skills,
		Complexity:    h.complexity,
		QuestionCount: h.opts.DefaultQuestionCount,
	}
	if body.QuestionComplexity != nil {
		req.Complexity = *body.QuestionComplexity
	}
	if body.NumberOfQuestions != nil {
		req.QuestionCount = *body.NumberOfQuestions
	}
	return req, nil
}

func (h *HTTPHandler) decodeForm(r *http.Request) (GenerationRequest, error) {
	if err := r.ParseMultipartForm(min(h.opts.MaxUploadBytes, 8<<20)); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if tooLarge := h.tooLarge(err); tooLarge != nil {
			return GenerationRequest{}, tooLarge
		}
		return GenerationRequest{}, &ValidationError{Field: "body", Message: fmt.Sprintf("invalid form: %v", err)}
	}
	if r.MultipartForm == nil {
		if err := r.ParseForm(); err != nil {
			return GenerationRequest{}, &ValidationError{Field: "body", Message: fmt.Sprintf("invalid form: %v", err)}
		}
	}

	req := GenerationRequest{
		Role:          r.FormValue("role"),
		Skills:        parseSkills(r.FormValue("skills")),
		Complexity:    h.complexity,
		QuestionCount: h.opts.DefaultQuestionCount,
	}

	var err error
	if req.Complexity, err = formInt(r, "questionComplexity", req.Complexity); err != nil {
		return GenerationRequest{}, err
	}
	if req.QuestionCount, err = formInt(r, "numberOfQuestions", req.QuestionCount); err != nil {
		return GenerationRequest{}, err
	}

	if r.MultipartForm != nil {
		for _, field := range []string{"pdf", "document"} {
			if files := r.MultipartForm.File[field]; len(files) > 0 {
				doc, err := readUpload(files[0])
				if err != nil {
					return GenerationRequest{}, err
				}
				req.Document = doc
				break
			}
		}
	}
	return req, nil
}

// tooLarge reports body-limit failures, which the multipart reader does not
// always wrap.
func (h *HTTPHandler) tooLarge(err error) *http.MaxBytesError {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return mbe
	}
	if strings.Contains(err.Error(), "request body too large") {
		return &http.MaxBytesError{Limit: h.opts.MaxUploadBytes}
	}
	return nil
}

func formInt(r *http.Request, field string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Message: field + " must be an integer"}
	}
	return n, nil
}

// parseSkills reads a JSON array of strings, falling back to a comma-separated list.
func parseSkills(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var list []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &list) == nil {
		return list
	}
	return strings.Split(raw, ",")
}

func readUpload(fh *multipart.FileHeader) (*Document, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, &ValidationError{Field: "pdf", Message: "uploaded file could not be read"}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ValidationError{Field: "pdf", Message: "uploaded file could not be read"}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &Document{
		Data:      data,
		MediaType: fh.Header.Get("Content-Type"),
		Filename:  fh.Filename,
	}, nil
}

// errorReply is the client-facing description of a pipeline failure.
type errorReply struct {
	Status     int
	Code       string
	Message    string
	Field      string
	RetryAfter bool
	// Silent marks failures caused by the client leaving; nothing is sent.
	Silent bool
}

// describeError maps the pipeline error taxonomy onto client replies.
func describeError(err error, clientGone bool) errorReply {
	var (
		validation  *ValidationError
		tooLarge    *http.MaxBytesError
		unavailable *UnavailableError
	)
	switch {
	case errors.As(err, &tooLarge):
		return errorReply{Status: http.StatusRequestEntityTooLarge, Code: httperrors.ErrCodePayloadTooLarge,
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
	case errors.As(err, &validation):
		return errorReply{Status: http.StatusBadRequest, Code: httperrors.ErrCodeValidationFailed,
			Message: validation.Message, Field: validation.Field}
	case errors.Is(err, ErrInvalidRequest):
		return errorReply{Status: http.StatusBadRequest, Code: httperrors.ErrCodeInvalidRequest, Message: err.Error()}
	case errors.As(err, &unavailable) && unavailable.Cause == CauseCanceled:
		return errorReply{Status: http.StatusServiceUnavailable, Code: httperrors.ErrCodeGenerationUnavailable,
			Message: "Question generation was interrupted, please try again.", RetryAfter: true, Silent: clientGone}
	case errors.As(err, &unavailable) && unavailable.Cause == CauseConfiguration:
		return errorReply{Status: http.StatusBadGateway, Code: httperrors.ErrCodeGenerationMisconfig,
			Message: "Question generation is not available right now."}
	case errors.Is(err, ErrGenerationUnavailable):
		return errorReply{Status: http.StatusServiceUnavailable, Code: httperrors.ErrCodeGenerationUnavailable,
			Message: "Question generation is temporarily unavailable, please try again.", RetryAfter: true}
	case errors.Is(err, ErrEmptyGeneration):
		return errorReply{Status: http.StatusBadGateway, Code: httperrors.ErrCodeEmptyGeneration,
			Message: "The model did not produce usable questions, please try again."}
	default:
		return errorReply{Status: http.StatusInternalServerError, Code: httperrors.ErrCodeInternalError,
			Message: "Something went wrong, please try again."}
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	correlationID := logging.RequestID(r.Context())
	reply := describeError(err, r.Context().Err() != nil)

	switch {
	case reply.Silent:
		h.logger.Info().Err(err).Str("request_id", correlationID).Msg("client went away during generation")
		return
	case reply.Status >= http.StatusInternalServerError && reply.Code == httperrors.ErrCodeInternalError:
		h.logger.Error().Err(err).Str("request_id", correlationID).Msg("unexpected generation error")
	}

	if reply.RetryAfter {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	switch {
	case reply.Field != "":
		httperrors.RespondValidationError(w, reply.Code, reply.Message, reply.Field)
	case reply.Status >= http.StatusInternalServerError:
		httperrors.RespondErrorWithCorrelation(w, reply.Status, reply.Code, reply.Message, correlationID)
	default:
		httperrors.RespondError(w, reply.Status, reply.Code, reply.Message)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
