package utils

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceeds(t *testing.T) {
	calls := 0
	err := Retry(3, 0, 2, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Retry(2, 0, 2, func() error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
	assert.Equal(t, 2, calls)
}

func TestRetryNoRetryError(t *testing.T) {
	boom := errors.New("fatal")
	calls := 0
	err := Retry(5, 0, 2, func() error {
		calls++
		return NoRetryError(boom)
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}
