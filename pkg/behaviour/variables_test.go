package behaviour_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
)

func TestSetVariable(t *testing.T) {
	board := blackboard.New()
	set := behaviour.NewSetVariable(board, "set-speed", "speed", 3.5)
	reader := board.Register("reader", uuid.New(), []string{"speed"}, nil)

	assert.Equal(t, domain.StatusSuccess, set.Tick(nil))

	value, err := reader.Get("speed")
	require.NoError(t, err)
	assert.Equal(t, 3.5, value)
}

func TestClearVariable(t *testing.T) {
	board := blackboard.New()
	owner := board.Register("owner", uuid.New(), []string{"flag"}, []string{"flag"})
	clear := behaviour.NewClearVariable(board, "clear-flag", "flag")

	t.Run("clearing an absent variable still succeeds", func(t *testing.T) {
		assert.Equal(t, domain.StatusSuccess, clear.Tick(nil))
	})

	t.Run("clears a present variable", func(t *testing.T) {
		require.NoError(t, owner.Set("flag", true, true))
		clear.Stop(domain.StatusInvalid) // fresh cycle so initialise fires again
		assert.Equal(t, domain.StatusSuccess, clear.Tick(nil))

		_, err := owner.Get("flag")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})
}

func TestCheckVariable(t *testing.T) {
	t.Run("existence only", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), nil, []string{"mode"})
		check := behaviour.NewCheckVariable(board, "check-mode", "mode")

		assert.Equal(t, domain.StatusFailure, check.Tick(nil))

		require.NoError(t, owner.Set("mode", "auto", true))
		check.Stop(domain.StatusInvalid)
		assert.Equal(t, domain.StatusSuccess, check.Tick(nil))
	})

	t.Run("expected value", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), nil, []string{"mode"})
		require.NoError(t, owner.Set("mode", "manual", true))

		check := behaviour.NewCheckVariable(board, "check-mode", "mode",
			behaviour.WithExpectedValue("auto"))
		assert.Equal(t, domain.StatusFailure, check.Tick(nil))

		require.NoError(t, owner.Set("mode", "auto", true))
		check.Stop(domain.StatusInvalid)
		assert.Equal(t, domain.StatusSuccess, check.Tick(nil))
	})

	t.Run("custom comparison", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), nil, []string{"battery"})
		require.NoError(t, owner.Set("battery", 80, true))

		atLeast := func(value, expected any) bool {
			return value.(int) >= expected.(int)
		}
		check := behaviour.NewCheckVariable(board, "check-battery", "battery",
			behaviour.WithExpectedValue(30), behaviour.WithCompare(atLeast))
		assert.Equal(t, domain.StatusSuccess, check.Tick(nil))
	})

	t.Run("dotted variable", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), nil, []string{"pose"})
		require.NoError(t, owner.Set("pose", map[string]any{"altitude": 12.0}, true))

		check := behaviour.NewCheckVariable(board, "check-altitude", "pose.altitude",
			behaviour.WithExpectedValue(12.0))
		assert.Equal(t, domain.StatusSuccess, check.Tick(nil))
	})
}

func TestCheckVariableCaching(t *testing.T) {
	t.Run("cached result masks later deletion", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), []string{"mode"}, []string{"mode"})
		require.NoError(t, owner.Set("mode", "auto", true))

		check := behaviour.NewCheckVariable(board, "check-mode", "mode",
			behaviour.WithClearingPolicy(domain.ClearNever))
		require.Equal(t, domain.StatusSuccess, check.Tick(nil))

		// The cache is consulted before the store, so the deletion goes
		// unnoticed until invalidation.
		require.NoError(t, owner.Unset("mode"))
		assert.Equal(t, domain.StatusSuccess, check.Tick(nil))

		check.Stop(domain.StatusInvalid)
		assert.Equal(t, domain.StatusFailure, check.Tick(nil))
	})

	t.Run("on-initialise clears between cycles", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), []string{"mode"}, []string{"mode"})
		require.NoError(t, owner.Set("mode", "auto", true))

		check := behaviour.NewCheckVariable(board, "check-mode", "mode")
		require.Equal(t, domain.StatusSuccess, check.Tick(nil))

		require.NoError(t, owner.Unset("mode"))
		// A terminal status ends the cycle, so the next tick re-initialises
		// and re-reads the store.
		assert.Equal(t, domain.StatusFailure, check.Tick(nil))
	})

	t.Run("on-success always re-verifies", func(t *testing.T) {
		board := blackboard.New()
		owner := board.Register("owner", uuid.New(), []string{"mode"}, []string{"mode"})
		require.NoError(t, owner.Set("mode", "auto", true))

		check := behaviour.NewCheckVariable(board, "check-mode", "mode",
			behaviour.WithClearingPolicy(domain.ClearOnSuccess))
		require.Equal(t, domain.StatusSuccess, check.Tick(nil))

		require.NoError(t, owner.Unset("mode"))
		assert.Equal(t, domain.StatusFailure, check.Tick(nil), "success is never cached")
	})
}

func TestWaitForVariable(t *testing.T) {
	board := blackboard.New()
	owner := board.Register("owner", uuid.New(), nil, []string{"target"})
	wait := behaviour.NewWaitForVariable(board, "wait-target", "target")

	assert.Equal(t, domain.StatusRunning, wait.Tick(nil))
	assert.Equal(t, domain.StatusRunning, wait.Tick(nil), "stays patient while absent")

	require.NoError(t, owner.Set("target", "pad-3", true))
	assert.Equal(t, domain.StatusSuccess, wait.Tick(nil))
}

func TestWaitForVariableExpected(t *testing.T) {
	board := blackboard.New()
	owner := board.Register("owner", uuid.New(), nil, []string{"state"})
	require.NoError(t, owner.Set("state", "warming", true))

	wait := behaviour.NewWaitForVariable(board, "wait-ready", "state",
		behaviour.WithExpectedValue("ready"))

	assert.Equal(t, domain.StatusRunning, wait.Tick(nil), "present but mismatched keeps waiting")

	require.NoError(t, owner.Set("state", "ready", true))
	assert.Equal(t, domain.StatusSuccess, wait.Tick(nil))
}
