package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain"
	"melidash/pkg/errcodes"
)

func TestAppError(t *testing.T) {
	rq := require.New(t)

	cause := errors.New("sql: no rows")
	err := fmt.Errorf("repo.Get: %w", domain.WrapError(cause, errcodes.UserNotFound, "user not found"))

	rq.True(domain.IsAppError(err))
	rq.ErrorIs(err, cause)
	rq.True(domain.HasCode(err, errcodes.UserNotFound))
	rq.False(domain.HasCode(err, errcodes.RuleNotFound))
	rq.Equal("repo.Get: user not found: sql: no rows", err.Error())

	code, ok := domain.GetCode(errors.New("plain"))
	rq.False(ok)
	rq.Empty(code)

	appErr := domain.Errorf(errcodes.InvalidRule, "rule %q has no actions", "r1")
	rq.Equal(`rule "r1" has no actions`, appErr.Description())
	rq.Equal(errcodes.InvalidRule, appErr.ErrorCode())
}
