package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrNameRequired   ErrCode = "NAME_REQUIRED"
	ErrAnswerCount    ErrCode = "ANSWER_COUNT_MISMATCH"

	// ─── Certificate pipeline ──────────────────────────────────────────
	ErrRenderFailed  ErrCode = "RENDER_FAILED"
	ErrRenderTimeout ErrCode = "RENDER_TIMEOUT"
	ErrUploadFailed  ErrCode = "UPLOAD_FAILED"

	// ─── Webhook queries ───────────────────────────────────────────────
	ErrFileNotFound ErrCode = "FILE_NOT_FOUND"
	ErrUpstream     ErrCode = "UPSTREAM_ERROR"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNameRequired:
		return "A name is required to receive a certificate."
	case ErrAnswerCount:
		return "Number of answers does not match the number of questions."

	// ─── Certificate pipeline ──────────────────────────────────────────
	case ErrRenderFailed:
		return "Certificate rendering failed."
	case ErrRenderTimeout:
		return "Certificate rendering timed out."
	case ErrUploadFailed:
		return "Certificate upload failed."

	// ─── Webhook queries ───────────────────────────────────────────────
	case ErrFileNotFound:
		return "No file with that hash was found in the collection."
	case ErrUpstream:
		return "The webhook service returned an unexpected response."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
