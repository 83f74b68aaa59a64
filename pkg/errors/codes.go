package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition, shaped
// MODULE_NNN.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeStorageError       ErrorCode = "COMMON_016"
	ErrCodeMessagingError     ErrorCode = "COMMON_017"
)

// Aliases used at call sites that read better with the short form.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Analysis pipeline error codes
const (
	// ErrCodeInputInvalid: empty or unparseable contract text, unsupported language.
	ErrCodeInputInvalid ErrorCode = "ANALYSIS_001"
	// ErrCodeSegmentationDegraded is informational; the segmenter fell back to a
	// single clause.  It is never returned from Analyze.
	ErrCodeSegmentationDegraded ErrorCode = "ANALYSIS_002"
	// ErrCodeStageTimeout: a per-clause sub-call exceeded its budget.
	ErrCodeStageTimeout ErrorCode = "ANALYSIS_003"
	// ErrCodeAggregationInvariant: clause_number reference mismatch.
	ErrCodeAggregationInvariant ErrorCode = "ANALYSIS_004"
	ErrCodeRunTimeout           ErrorCode = "ANALYSIS_005"
	ErrCodeResultIncomplete     ErrorCode = "ANALYSIS_006"
)

// Catalog error codes
const (
	ErrCodeCatalogInvalid   ErrorCode = "CATALOG_001"
	ErrCodeTemplateNotFound ErrorCode = "CATALOG_002"
)

// Text generation error codes
const (
	ErrCodeTextGenUnavailable ErrorCode = "TEXTGEN_001"
	ErrCodeTextGenFailed      ErrorCode = "TEXTGEN_002"
	ErrCodeTextGenBadResponse ErrorCode = "TEXTGEN_003"
)

// ErrorCodeHTTPStatus maps codes to the HTTP status returned by the API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeInputInvalid:         http.StatusBadRequest,
	ErrCodeSegmentationDegraded: http.StatusOK,
	ErrCodeStageTimeout:         http.StatusGatewayTimeout,
	ErrCodeAggregationInvariant: http.StatusInternalServerError,
	ErrCodeRunTimeout:           http.StatusGatewayTimeout,
	ErrCodeResultIncomplete:     http.StatusInternalServerError,

	ErrCodeCatalogInvalid:   http.StatusInternalServerError,
	ErrCodeTemplateNotFound: http.StatusNotFound,

	ErrCodeTextGenUnavailable: http.StatusServiceUnavailable,
	ErrCodeTextGenFailed:      http.StatusBadGateway,
	ErrCodeTextGenBadResponse: http.StatusBadGateway,
}

// ErrorCodeMessage holds the default message per code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache operation failed",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeStorageError:       "object storage operation failed",
	ErrCodeMessagingError:     "message publishing failed",

	ErrCodeInputInvalid:         "contract text cannot be analysed",
	ErrCodeSegmentationDegraded: "no clause boundaries detected",
	ErrCodeStageTimeout:         "analysis stage timed out",
	ErrCodeAggregationInvariant: "clause reference mismatch in analysis results",
	ErrCodeRunTimeout:           "analysis run timed out",
	ErrCodeResultIncomplete:     "analysis result is missing a section",

	ErrCodeCatalogInvalid:   "clause catalog is invalid",
	ErrCodeTemplateNotFound: "template not found",

	ErrCodeTextGenUnavailable: "text generation backend unavailable",
	ErrCodeTextGenFailed:      "text generation failed",
	ErrCodeTextGenBadResponse: "text generation returned an unusable response",
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
