package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
)

func TestKindStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindValidation: http.StatusBadRequest,
		apperr.KindAuth:       http.StatusUnauthorized,
		apperr.KindForbidden:  http.StatusForbidden,
		apperr.KindNotFound:   http.StatusNotFound,
		apperr.KindConflict:   http.StatusBadRequest,
		apperr.KindPayload:    http.StatusBadRequest,
		apperr.KindInternal:   http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	sentinel := apperr.New(apperr.KindNotFound, "thing_not_found", "thing not found")
	wrapped := fmt.Errorf("load thing: %w", sentinel)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.True(t, errors.Is(wrapped, sentinel))

	got, ok := apperr.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "thing not found", got.Message)
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
	assert.False(t, apperr.IsNotFound(nil))
}
