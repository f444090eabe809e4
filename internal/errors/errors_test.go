package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeForStatus(http.StatusUnprocessableEntity))
	assert.Equal(t, CodeNotFound, CodeForStatus(http.StatusMethodNotAllowed))
	assert.Equal(t, CodeRateLimited, CodeForStatus(http.StatusTooManyRequests))
	assert.Equal(t, CodeUnavailable, CodeForStatus(http.StatusServiceUnavailable))
	assert.Equal(t, CodeInternal, CodeForStatus(http.StatusTeapot))
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("unknown chart %q", "pie")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := New("open data/netflix_titles.csv: no such file or directory")
	err := Wrapf(cause, CodeNotFound, "catalog file %s not found", "data/netflix_titles.csv")

	assert.Equal(t, "catalog file data/netflix_titles.csv not found: "+cause.Error(), err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "bad year", Validationf("bad %s", "year").Message)
	assert.Equal(t, CodeUnavailable, Unavailable("catalog is not loaded").Code)

	detailed := ValidationWithDetails("invalid filter", map[string]string{"year_to": "must be >= year_from"})
	assert.Equal(t, http.StatusBadRequest, detailed.HTTPStatus())
	assert.NotNil(t, detailed.Details)
}
