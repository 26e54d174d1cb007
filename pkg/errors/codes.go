package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
	ErrCodeNotImplemented     ErrorCode = "COMMON_013"
)

// Aliases used by generic layers.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Lookup Source Error Codes.  SRC failures are fatal for the affected field
// type's dictionary only; the remaining field types continue to resolve.
const (
	ErrCodeSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeSourceAuthFailed  ErrorCode = "SRC_003"
	ErrCodeSourceParseError  ErrorCode = "SRC_004"
	ErrCodeSourceFormat      ErrorCode = "SRC_005"
)

// Ontology Resolution Error Codes
const (
	ErrCodeFieldTypeInvalid   ErrorCode = "ONT_001"
	ErrCodeDictionaryNotBuilt ErrorCode = "ONT_002"
	ErrCodeDictionaryEmpty    ErrorCode = "ONT_003"
	ErrCodeScorerInvalid      ErrorCode = "ONT_004"
	ErrCodeThresholdInvalid   ErrorCode = "ONT_005"
	ErrCodeEntityMalformed    ErrorCode = "ONT_006"
	ErrCodeSnapshotCorrupt    ErrorCode = "ONT_007"
)

// Pipeline Error Codes
const (
	ErrCodePipelineAborted   ErrorCode = "PIPE_001"
	ErrCodeRunNotFound       ErrorCode = "PIPE_002"
	ErrCodeIntakeMalformed   ErrorCode = "PIPE_003"
	ErrCodePublishFailed     ErrorCode = "PIPE_004"
	ErrCodeReportUnavailable ErrorCode = "PIPE_005"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSourceRateLimited: http.StatusTooManyRequests,
	ErrCodeSourceAuthFailed:  http.StatusBadGateway,
	ErrCodeSourceParseError:  http.StatusBadGateway,
	ErrCodeSourceFormat:      http.StatusBadGateway,

	ErrCodeFieldTypeInvalid:   http.StatusBadRequest,
	ErrCodeDictionaryNotBuilt: http.StatusServiceUnavailable,
	ErrCodeDictionaryEmpty:    http.StatusServiceUnavailable,
	ErrCodeScorerInvalid:      http.StatusBadRequest,
	ErrCodeThresholdInvalid:   http.StatusBadRequest,
	ErrCodeEntityMalformed:    http.StatusUnprocessableEntity,
	ErrCodeSnapshotCorrupt:    http.StatusInternalServerError,

	ErrCodePipelineAborted:   http.StatusInternalServerError,
	ErrCodeRunNotFound:       http.StatusNotFound,
	ErrCodeIntakeMalformed:   http.StatusUnprocessableEntity,
	ErrCodePublishFailed:     http.StatusInternalServerError,
	ErrCodeReportUnavailable: http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeSourceUnavailable: "lookup source unavailable",
	ErrCodeSourceRateLimited: "lookup source rate limited",
	ErrCodeSourceAuthFailed:  "lookup source authentication failed",
	ErrCodeSourceParseError:  "failed to parse lookup source response",
	ErrCodeSourceFormat:      "lookup source extract unusable for dictionary build",

	ErrCodeFieldTypeInvalid:   "invalid field type",
	ErrCodeDictionaryNotBuilt: "dictionary not built for field type",
	ErrCodeDictionaryEmpty:    "dictionary contains no entities",
	ErrCodeScorerInvalid:      "unsupported similarity scorer",
	ErrCodeThresholdInvalid:   "invalid fuzzy threshold",
	ErrCodeEntityMalformed:    "source entity malformed",
	ErrCodeSnapshotCorrupt:    "dictionary snapshot corrupt",

	ErrCodePipelineAborted:   "enrichment pipeline aborted",
	ErrCodeRunNotFound:       "pipeline run not found",
	ErrCodeIntakeMalformed:   "intake message malformed",
	ErrCodePublishFailed:     "failed to publish enriched entity",
	ErrCodeReportUnavailable: "report not available",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
