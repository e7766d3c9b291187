package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UpdateStreak(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first trade starts a streak", func(t *testing.T) {
		u := &User{}
		u.UpdateStreak(start, DefaultStreakWindow)

		assert.Equal(t, 1, u.CurrentStreak)
		assert.Equal(t, 1, u.LongestStreak)
		require.NotNil(t, u.LastTradeTime)
		assert.True(t, u.LastTradeTime.Equal(start))
	})

	t.Run("trades inside the window extend the streak", func(t *testing.T) {
		u := &User{}
		u.UpdateStreak(start, DefaultStreakWindow)
		u.UpdateStreak(start.Add(10*time.Minute), DefaultStreakWindow)
		u.UpdateStreak(start.Add(39*time.Minute), DefaultStreakWindow)

		assert.Equal(t, 3, u.CurrentStreak)
		assert.Equal(t, 3, u.LongestStreak)
	})

	t.Run("a gap of 31 minutes resets the streak", func(t *testing.T) {
		last := start
		u := &User{CurrentStreak: 7, LongestStreak: 9, LastTradeTime: &last}
		u.UpdateStreak(start.Add(31*time.Minute), DefaultStreakWindow)

		assert.Equal(t, 1, u.CurrentStreak)
		assert.Equal(t, 9, u.LongestStreak)
	})

	t.Run("exactly the window resets", func(t *testing.T) {
		last := start
		u := &User{CurrentStreak: 2, LongestStreak: 2, LastTradeTime: &last}
		u.UpdateStreak(start.Add(DefaultStreakWindow), DefaultStreakWindow)

		assert.Equal(t, 1, u.CurrentStreak)
	})
}

func TestUser_Clone(t *testing.T) {
	ts := time.Now()
	u := &User{ID: 1, Username: "alice", LastTradeTime: &ts}
	c := u.Clone()

	*c.LastTradeTime = ts.Add(time.Hour)
	c.Username = "bob"

	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.LastTradeTime.Equal(ts))
}
