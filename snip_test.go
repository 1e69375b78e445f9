package snip_test

import (
	"errors"
	"testing"

	"github.com/snipgo/snip"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := snip.Errorf(snip.ENOTFOUND, "field %q not found", "title")

	assert.Equal(t, snip.ENOTFOUND, snip.ErrorCode(err))
	assert.Equal(t, "field \"title\" not found", snip.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, snip.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, snip.EINTERNAL, snip.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, snip.ErrorMessage(nil))
}
