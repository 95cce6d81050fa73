package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/bondmap/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"unknown atom", errors.ErrCodeUnknownAtom, "bond 3 references atom 99"},
		{"invalid param", errors.CodeInvalidParam, "--ba needs at least four ids"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeParse, "unexpected token")
	assert.Equal(t, "[PARSE_001] unexpected token", ae.Error())

	withDetail := ae.WithDetail("line 4")
	assert.Equal(t, "[PARSE_001] unexpected token: line 4", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")

	withCause := withDetail.WithCause(fmt.Errorf("eof"))
	assert.Equal(t, "[PARSE_001] unexpected token: line 4 (caused by: eof)", withCause.Error())
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	sentinel := stderrors.New("disk full")
	wrapped := errors.Wrap(sentinel, errors.ErrCodeIO, "failed to write map file")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, sentinel))
	assert.Equal(t, errors.ErrCodeIO, wrapped.Code)
}

func TestWrap_UnknownCodeKeepsOriginal(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeUnresolvedAtom, "timed out")
	outer := errors.Wrap(inner, errors.CodeUnknown, "mapping failed")

	assert.Equal(t, errors.ErrCodeUnresolvedAtom, outer.Code)
}

func TestIsCode_WalksTheChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeDuplicateAssignment, "post atom 4 is already mapped")
	outer := errors.Wrap(inner, errors.CodeInternal, "engine aborted")
	std := fmt.Errorf("run: %w", outer)

	assert.True(t, errors.IsCode(std, errors.CodeInternal))
	assert.True(t, errors.IsCode(std, errors.ErrCodeDuplicateAssignment))
	assert.False(t, errors.IsCode(std, errors.ErrCodeParse))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeCountMismatch, errors.GetCode(errors.CountMismatch("atom counts differ", 10, 9)))
}

func TestDomainConstructors(t *testing.T) {
	t.Parallel()

	cm := errors.CountMismatch("different numbers of atoms", 10, 12)
	assert.Equal(t, "pre: 10, post: 12", cm.Detail)

	un := errors.Unresolved([]string{"5", "10"}, []string{"9"})
	assert.Equal(t, errors.ErrCodeUnresolvedAtom, un.Code)
	assert.Equal(t, "pre: [5 10], post: [9]", un.Detail)

	dup := errors.DuplicateAssignment("post", "4", "1", "2")
	assert.Equal(t, errors.ErrCodeDuplicateAssignment, dup.Code)
	assert.Contains(t, dup.Error(), "post atom 4 is already mapped")

	si := errors.StructuralIntegrity("bond references unknown atom")
	assert.Equal(t, errors.ErrCodeStructuralIntegrity, si.Code)
}
