package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "MAP_001", ErrCodeUnresolvedAtom.String())
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "missing atom search timed out", DefaultMessageForCode(ErrCodeUnresolvedAtom))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "STRUCT", ModuleForCode(ErrCodeStructuralIntegrity))
	assert.Equal(t, "COUNT", ModuleForCode(ErrCodeCountMismatch))
	assert.Equal(t, "MAP", ModuleForCode(ErrCodeDuplicateAssignment))
	assert.Equal(t, "PARSE", ModuleForCode(ErrCodeParse))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestExitCodeForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{CodeOK, 0},
		{ErrCodeInternal, 1},
		{ErrCodeConfigInvalid, 2},
		{ErrCodeParse, 3},
		{ErrCodeIO, 3},
		{ErrCodeStructuralIntegrity, 4},
		{ErrCodeCountMismatch, 4},
		{ErrCodeUnresolvedAtom, 5},
		{ErrorCode("WHATEVER_9"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExitCodeForCode(tt.code), tt.code)
	}
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeMessage {
		assert.Regexp(t, pattern, string(code))
	}
}
