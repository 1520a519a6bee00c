package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), 400},
		{Permission("nope"), 403},
		{NotFound("missing"), 404},
		{Conflict("raced"), 409},
		{Internal("broken"), 500},
		{errors.New("plain"), 500},
		{fmt.Errorf("wrapped: %w", NotFound("inner")), 404},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), "%v", tt.err)
	}
}

func TestConstructorsWrapSentinels(t *testing.T) {
	err := Conflict("record %s changed", "abc")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "record abc changed")
}
