package roleskill

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/logging"
	httperrors "github.com/VrindaSoni2/hire.ai/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler exposes the catalog under /api/candidate-role-skills.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "roleskill_http").Logger(),
	}
}

// RegisterRoutes mounts the catalog endpoints, all wrapped by protect.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	const base = "/api/candidate-role-skills"
	routes := map[string]http.HandlerFunc{
		"POST " + base:                            h.HandleCreate,
		"GET " + base:                             h.HandleList,
		"GET " + base + "/search/skills":          h.HandleSearch,
		"GET " + base + "/skills/all":             h.HandleAllSkills,
		"GET " + base + "/category/{category}":    h.HandleByCategory,
		"GET " + base + "/{id}":                   h.HandleGet,
		"PUT " + base + "/{id}":                   h.HandleUpdate,
		"DELETE " + base + "/{id}":                h.HandleDelete,
		"POST " + base + "/{id}/skills":           h.HandleAddSkill,
		"DELETE " + base + "/{id}/skills/{skill}": h.HandleRemoveSkill,
	}
	for pattern, fn := range routes {
		mux.Handle(pattern, protect(fn))
	}
}

// HandleCreate handles POST /api/candidate-role-skills.
func (h *HTTPHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !h.decode(w, r, &in) {
		return
	}
	rs, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillSaveFailed)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": rs})
}

// HandleList handles GET /api/candidate-role-skills.
func (h *HTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillFetchFailed)
		return
	}
	writeList(w, list)
}

// HandleGet handles GET /api/candidate-role-skills/{id}.
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rs, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rs})
}

// HandleUpdate handles PUT /api/candidate-role-skills/{id}.
func (h *HTTPHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if !h.decode(w, r, &in) {
		return
	}
	rs, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillSaveFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rs})
}

// HandleAddSkill handles POST /api/candidate-role-skills/{id}/skills.
func (h *HTTPHandler) HandleAddSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Skill string `json:"skill"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	rs, err := h.svc.AddSkill(r.Context(), id, body.Skill)
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillSaveFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rs})
}

// HandleRemoveSkill handles DELETE /api/candidate-role-skills/{id}/skills/{skill}.
func (h *HTTPHandler) HandleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rs, err := h.svc.RemoveSkill(r.Context(), id, r.PathValue("skill"))
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillSaveFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rs})
}

// HandleSearch handles GET /api/candidate-role-skills/search/skills?skills=a&skills=b.
// A single comma-separated value is accepted too.
func (h *HTTPHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var skills []string
	for _, v := range r.URL.Query()["skills"] {
		skills = append(skills, strings.Split(v, ",")...)
	}
	list, err := h.svc.SearchBySkills(r.Context(), skills)
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillFetchFailed)
		return
	}
	writeList(w, list)
}

// HandleAllSkills handles GET /api/candidate-role-skills/skills/all.
func (h *HTTPHandler) HandleAllSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.svc.AllSkills(r.Context())
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": skills, "count": len(skills)})
}

// HandleByCategory handles GET /api/candidate-role-skills/category/{category}.
func (h *HTTPHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillFetchFailed)
		return
	}
	writeList(w, list)
}

// HandleDelete handles DELETE /api/candidate-role-skills/{id}.
func (h *HTTPHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err, httperrors.ErrCodeRoleSkillSaveFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "role skill deleted"})
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodePayloadTooLarge, "request body too large")
			return false
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "request body must be valid JSON")
		return false
	}
	return true
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error, failCode string) {
	var field *FieldError
	switch {
	case errors.As(err, &field):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, field.Message, field.Field)
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeRoleSkillNotFound, "role skill not found")
	default:
		correlationID := logging.RequestID(r.Context())
		h.logger.Error().Err(err).Str("request_id", correlationID).Msg("role skill request failed")
		httperrors.RespondErrorWithCorrelation(w, http.StatusInternalServerError, failCode, "role skill request failed", correlationID)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "id must be a UUID", "id")
		return uuid.Nil, false
	}
	return id, true
}

func writeList(w http.ResponseWriter, list []RoleSkill) {
	writeJSON(w, http.StatusOK, map[string]any{"data": list, "count": len(list)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
