package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorFormat(t *testing.T) {
	e := New(ErrCodeClaimNotFound, "claim not found")
	assert.Equal(t, "[CLAIM_001] claim not found", e.Error())

	withDetail := e.WithDetail("id=42")
	assert.Equal(t, "[CLAIM_001] claim not found: id=42", withDetail.Error())
	// Original untouched.
	assert.Empty(t, e.Detail)
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "query failed"))
}

func TestWrap_PreservesDomainCode(t *testing.T) {
	inner := NewUnknownDocumentTypeError("ration_card")
	wrapped := Wrap(inner, ErrCodeInternal, "pipeline aborted")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrCodeUnknownDocumentType, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, inner) || IsCode(wrapped, ErrCodeUnknownDocumentType))
}

func TestIsCode_TraversesChain(t *testing.T) {
	base := New(ErrCodeDocumentNotFound, "document missing")
	mid := fmt.Errorf("loading record: %w", base)
	outer := Wrap(mid, ErrCodeDatabaseError, "repository failure")

	assert.True(t, IsCode(outer, ErrCodeDocumentNotFound))
	assert.True(t, IsNotFound(outer))
	assert.False(t, IsValidation(outer))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, GetCode(NewInvalidInputError("bad")))
	assert.Equal(t, ErrCodeInternal, GetCode(stderrors.New("plain")))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidation(NewUnknownDocumentTypeError("x")))
	assert.True(t, IsTimeout(New(ErrCodeTimeout, "ocr deadline exceeded")))
	assert.True(t, IsConflict(New(ErrCodeConflict, "already verified")))
}
