package google

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(&googleapi.Error{Code: tt.code})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, WrapError(plain))

	// Unmapped API codes come back unchanged.
	serverErr := &googleapi.Error{Code: http.StatusInternalServerError}
	assert.Equal(t, error(serverErr), WrapError(serverErr))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(&googleapi.Error{Code: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(errors.New("other")))
	assert.False(t, IsUnauthorized(nil))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: http.StatusUnauthorized}))
	assert.False(t, IsRateLimited(nil))
}
