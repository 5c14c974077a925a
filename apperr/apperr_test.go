package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindRateLimited:     http.StatusTooManyRequests,
		KindUnavailable:     http.StatusServiceUnavailable,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status())
	}
}

func TestAs_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Unauthenticated(ReasonExpired, "令牌已过期"))

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindUnauthenticated, e.Kind)
	assert.Equal(t, ReasonExpired, e.Reason)
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "x"))

	err := FromDB(gorm.ErrRecordNotFound, "账单不存在")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "账单不存在", err.Error())

	err = FromDB(errors.New("connection refused"), "账单不存在")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationFields(t *testing.T) {
	err := Validation("参数校验失败", FieldError{Field: "amount", Message: "不能小于 0"})
	assert.Len(t, err.Fields, 1)
	assert.Equal(t, "参数校验失败", err.Error())
}
