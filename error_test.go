package serpwall_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/serpwall"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := serpwall.Errorf(serpwall.ENOTFOUND, "key %q not found", "serpwall_enabled")

	assert.Equal(t, serpwall.ENOTFOUND, serpwall.ErrorCode(err))
	assert.Equal(t, "key \"serpwall_enabled\" not found", serpwall.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading config: %w", serpwall.Errorf(serpwall.EINVALID, "max climb depth must be positive"))

	assert.Equal(t, serpwall.EINVALID, serpwall.ErrorCode(err))
	assert.Equal(t, "max climb depth must be positive", serpwall.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, serpwall.EINTERNAL, serpwall.ErrorCode(err))
	assert.Equal(t, "Internal error.", serpwall.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, serpwall.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, serpwall.ErrorMessage(nil))
}
