package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_003"
	ErrCodeCancelled     ErrorCode = "COMMON_004"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_001"
)

// Aliases used across the code base.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
)

// Structure Error Codes. Raised while building a molecule graph from input
// records; always fatal.
const (
	ErrCodeStructuralIntegrity ErrorCode = "STRUCT_001"
	ErrCodeUnknownAtomType     ErrorCode = "STRUCT_002"
	ErrCodeUnknownAtom         ErrorCode = "STRUCT_003"
)

// Count Error Codes
const (
	ErrCodeCountMismatch   ErrorCode = "COUNT_001"
	ErrCodeAnchorMismatch  ErrorCode = "COUNT_002"
	ErrCodePartialMismatch ErrorCode = "COUNT_003"
)

// Mapping Error Codes
const (
	ErrCodeUnresolvedAtom      ErrorCode = "MAP_001"
	ErrCodeDuplicateAssignment ErrorCode = "MAP_002"
	ErrCodeEdgeFingerprint     ErrorCode = "MAP_003"
)

// Flat file Error Codes
const (
	ErrCodeParse          ErrorCode = "PARSE_001"
	ErrCodeMissingSection ErrorCode = "PARSE_002"
	ErrCodeIO             ErrorCode = "IO_001"
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal error",
	ErrCodeBadRequest:    "bad request",
	ErrCodeNotFound:      "not found",
	ErrCodeCancelled:     "operation cancelled",
	ErrCodeConfigInvalid: "invalid configuration",

	ErrCodeStructuralIntegrity: "malformed molecular structure",
	ErrCodeUnknownAtomType:     "atom type missing from the element table",
	ErrCodeUnknownAtom:         "atom id not present in structure",

	ErrCodeCountMismatch:   "pre- and post-bond atom counts differ",
	ErrCodeAnchorMismatch:  "pre- and post-bond anchor lists differ in length",
	ErrCodePartialMismatch: "pre- and post-bond partial structures differ in size",

	ErrCodeUnresolvedAtom:      "missing atom search timed out",
	ErrCodeDuplicateAssignment: "atom assigned twice",
	ErrCodeEdgeFingerprint:     "pre- and post-bond edge atom fingerprints do not match",

	ErrCodeParse:          "failed to parse file",
	ErrCodeMissingSection: "required section missing",
	ErrCodeIO:             "file access failed",
}

// exitCodes groups codes into process exit statuses for the CLI.
var exitCodes = map[string]int{
	"COMMON": 1,
	"CONFIG": 2,
	"PARSE":  3,
	"IO":     3,
	"STRUCT": 4,
	"COUNT":  4,
	"MAP":    5,
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// ExitCodeForCode returns the process exit status used by the CLI for code.
func ExitCodeForCode(code ErrorCode) int {
	if code == CodeOK {
		return 0
	}
	if status, ok := exitCodes[ModuleForCode(code)]; ok {
		return status
	}
	return 1
}
