package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrapf(ErrUnknownOption, "option %q", "nope")
	assert.True(t, Is(err, ErrUnknownOption))
	assert.Contains(t, err.Error(), `option "nope"`)
	assert.False(t, Is(err, ErrTypeQuery))
}

func TestHints(t *testing.T) {
	err := WithHint(ErrNoInputFiles, "pass at least one entry point")
	assert.Equal(t, []string{"pass at least one entry point"}, GetAllHints(err))
}
