package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"

	// Generation errors
	ErrCodeGenerationUnavailable = "generation_unavailable"
	ErrCodeGenerationMisconfig   = "generation_misconfigured"
	ErrCodeEmptyGeneration       = "empty_generation"

	// Role-skill catalog errors
	ErrCodeRoleSkillNotFound    = "role_skill_not_found"
	ErrCodeRoleSkillFetchFailed = "role_skill_fetch_failed"
	ErrCodeRoleSkillSaveFailed  = "role_skill_save_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
