package apperr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringID string

func (s stringID) String() string { return string(s) }

func TestErrorIsByKind(t *testing.T) {
	err := NotFound(stringID("vertex:01"))
	assert.False(t, errors.Is(err, ErrEmptyTraversal))
	assert.True(t, errors.Is(err, NotFound(stringID("other"))))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Busy()))
	assert.True(t, IsRetryable(TimedOut(0)))
	assert.False(t, IsRetryable(VertexInvalid()))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestUnwrapCarriesCause(t *testing.T) {
	cause := errors.New("boom")
	err := StoreError(cause)
	require.ErrorIs(t, err, cause)
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{EmptyTraversal(), "empty_traversal"},
		{TimedOut(2 * time.Second), "timed out waiting for transaction: 2s"},
		{BadRequest("Missing to"), "bad request: Missing to"},
		{InvalidPValue("Edge(..)"), "invalid pvalue: Edge(..)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}
