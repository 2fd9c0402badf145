package guard_test

import (
	"errors"
	"testing"

	"fooddelivery/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		assert.Equal(t, expected, g.Validate(expected))
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedUsage(t *testing.T) {
	type ticket struct {
		number int
		guard  guard.ConstructorGuard
	}
	errTicket := errors.New("ticket must be created via newTicket")
	newTicket := func(n int) ticket {
		return ticket{number: n, guard: guard.NewConstructorGuard()}
	}

	require.NoError(t, newTicket(7).guard.Validate(errTicket))
	require.ErrorIs(t, ticket{number: 7}.guard.Validate(errTicket), errTicket)
}
