package errors

// ErrorCode is the string identifier of a specific failure category.  Codes
// are grouped by domain prefix so that metrics and API clients can dispatch
// on the prefix without knowing every individual code.
type ErrorCode string

// ─────────────────────────────────────────────────────────────────────────────
// Common codes — cross-cutting failure categories
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
)

// ─────────────────────────────────────────────────────────────────────────────
// Document pipeline codes
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeUnknownDocumentType is the one extraction-side condition that
	// fails fast: without a registry entry there is no rule set to apply.
	ErrCodeUnknownDocumentType ErrorCode = "DOC_001"

	ErrCodeDocumentNotFound    ErrorCode = "DOC_002"
	ErrCodeDocumentTooLarge    ErrorCode = "DOC_003"
	ErrCodeUnsupportedFileKind ErrorCode = "DOC_004"
	ErrCodeStorageFailed       ErrorCode = "DOC_006"
	ErrCodeInvalidReview       ErrorCode = "DOC_007"
)

// ─────────────────────────────────────────────────────────────────────────────
// Claim / eligibility codes
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeClaimNotFound   ErrorCode = "CLAIM_001"
	ErrCodeClaimInvalid    ErrorCode = "CLAIM_002"
	ErrCodeCatalogInvalid  ErrorCode = "SCHEME_002"
	ErrCodeScoringConfig   ErrorCode = "SCHEME_003"
	ErrCodeReportNotStored ErrorCode = "SCHEME_004"
)

// String returns the code identifier.
func (c ErrorCode) String() string { return string(c) }

// ─────────────────────────────────────────────────────────────────────────────
// Domain-flavoured factories
// ─────────────────────────────────────────────────────────────────────────────

// NewInvalidInputError constructs a validation error for a malformed
// caller-supplied value.
func NewInvalidInputError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// NewNotFoundError constructs a generic not-found error.
func NewNotFoundError(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// NewUnknownDocumentTypeError constructs the fail-fast rejection for a
// document type tag that has no registry entry.
func NewUnknownDocumentTypeError(typeTag string) *AppError {
	return New(ErrCodeUnknownDocumentType, "unknown document type: "+typeTag)
}
